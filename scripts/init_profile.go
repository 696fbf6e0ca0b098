package main

import (
	"fmt"
	"log"

	"github.com/linkbio/internal/config"
	"github.com/linkbio/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查站点账号是否已存在
	var count int64
	db.DB.Model(&db.Profile{}).Where("handle = ?", cfg.SiteHandle).Count(&count)
	if count > 0 {
		fmt.Println("站点账号已存在，无需初始化")
		return
	}

	email := cfg.AdminEmail
	password := cfg.AdminPassword
	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123" // 默认密码
	}

	if err := db.EnsureProfile(cfg.SiteHandle, email, password); err != nil {
		log.Fatal("创建站点账号失败:", err)
	}

	fmt.Println("站点账号创建成功")
	fmt.Println("邮箱:", email)
	fmt.Println("密码:", password)
}
