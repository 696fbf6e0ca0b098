package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/config"
	"github.com/linkbio/internal/db"
	"github.com/linkbio/internal/handler"
	"github.com/linkbio/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 确保站点本体账号存在
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := db.EnsureProfile(cfg.SiteHandle, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to ensure site profile: %v", err)
		}
	}

	api := handler.NewAPI(db.DB, cfg)
	defer api.Close()

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
