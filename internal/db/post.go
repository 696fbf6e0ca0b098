package db

import (
	"time"

	"gorm.io/gorm"
)

// Post 定义了博客文章模型。
// Slug 仅在同一位作者下唯一；PublishedAt 为空即草稿，非空即已发布。
type Post struct {
	gorm.Model
	ProfileID   uint   `gorm:"index;not null;uniqueIndex:idx_posts_owner_slug"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"size:200;not null;uniqueIndex:idx_posts_owner_slug"`
	Excerpt     string `gorm:"type:text"`
	ContentMD   string `gorm:"type:text"`
	CoverURL    string `gorm:"size:500"`
	PublishedAt *time.Time
}

// Published 报告文章是否已发布。发布态完全由时间戳的空与非空决定。
func (p Post) Published() bool {
	return p.PublishedAt != nil
}
