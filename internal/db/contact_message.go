package db

import "gorm.io/gorm"

// ContactMessage 保存公开联系表单提交的留言。
// 留言只写不读：创建之后不存在任何后续生命周期。
type ContactMessage struct {
	gorm.Model
	Name        string `gorm:"size:120;not null"`
	SenderEmail string `gorm:"size:255;not null"`
	ServiceType string `gorm:"size:80"`
	Company     string `gorm:"size:120"`
	Message     string `gorm:"type:text;not null"`
	SiteHandle  string `gorm:"size:80;index;not null"`
}

// TableName 返回自定义表名，避免冲突
func (ContactMessage) TableName() string {
	return "contact_messages"
}
