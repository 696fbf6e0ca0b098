package db

import "gorm.io/gorm"

// SocialLink 用于保存前台展示的外链信息
// Platform 为自由文本，按子串匹配前端内置的图标
// Sort 值越小越靠前，相同排序时按插入顺序展示
// Enabled 标记是否在前台展示

type SocialLink struct {
	gorm.Model
	ProfileID uint   `gorm:"index;not null"`
	Platform  string `gorm:"size:50;not null"`
	Label     string `gorm:"size:80;not null"`
	Href      string `gorm:"size:500;not null"`
	Sort      int    `gorm:"default:0"`
	Enabled   bool   `gorm:"default:true"`
}

// TableName 返回自定义表名，避免冲突
func (SocialLink) TableName() string {
	return "social_links"
}
