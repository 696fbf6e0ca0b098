package db

import "gorm.io/gorm"

// Brand 定义了合作品牌模型，排序语义与 SocialLink 一致。
type Brand struct {
	gorm.Model
	ProfileID uint   `gorm:"index;not null"`
	Name      string `gorm:"size:120;not null"`
	LogoURL   string `gorm:"size:500"`
	Sort      int    `gorm:"default:0"`
	Enabled   bool   `gorm:"default:true"`
}
