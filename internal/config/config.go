package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string
	UploadDir     string
	UploadURLPath string
	SiteHandle    string
	SiteBaseURL   string
	AdminEmail    string
	AdminPassword string
}

// Load 从环境变量读取应用配置。SITE_HANDLE 与 SITE_BASE_URL 属于必填项，
// 缺失时立即返回错误，避免服务在未定义的站点上静默运行。
func Load() (AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("database_path", "linkbio.db")
	v.SetDefault("session_secret", "linkbio-dev-secret")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("upload_dir", "web/static/media")
	v.SetDefault("upload_url_path", "/static/media")

	cfg := AppConfig{
		ListenAddr:    strings.TrimSpace(v.GetString("listen_addr")),
		Port:          strings.TrimSpace(v.GetString("port")),
		DatabasePath:  strings.TrimSpace(v.GetString("database_path")),
		SessionSecret: strings.TrimSpace(v.GetString("session_secret")),
		GinMode:       strings.TrimSpace(v.GetString("gin_mode")),
		UploadDir:     strings.TrimSpace(v.GetString("upload_dir")),
		UploadURLPath: strings.TrimSpace(v.GetString("upload_url_path")),
		SiteHandle:    strings.TrimSpace(v.GetString("site_handle")),
		SiteBaseURL:   strings.TrimSpace(v.GetString("site_base_url")),
		AdminEmail:    strings.TrimSpace(v.GetString("admin_email")),
		AdminPassword: v.GetString("admin_password"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	missing := make([]string, 0, 2)
	if cfg.SiteHandle == "" {
		missing = append(missing, "SITE_HANDLE")
	}
	if cfg.SiteBaseURL == "" {
		missing = append(missing, "SITE_BASE_URL")
	}
	if len(missing) > 0 {
		return AppConfig{}, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	cfg.SiteBaseURL = strings.TrimRight(cfg.SiteBaseURL, "/")

	return cfg, nil
}
