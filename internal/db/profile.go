package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Profile 定义了站点主人的资料模型。
// Likes 为公开点赞计数，必须通过原子更新修改，避免并发访客丢失计数。
type Profile struct {
	gorm.Model
	Handle         string `gorm:"size:80;uniqueIndex;not null"`
	DisplayName    string `gorm:"size:120;not null"`
	Bio            string `gorm:"type:text"`
	Email          string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash   string `gorm:"size:255;not null"`
	AvatarURL      string `gorm:"size:500"`
	CoverURL       string `gorm:"size:500"`
	CommunityLabel string `gorm:"size:120"`
	CommunityHref  string `gorm:"size:500"`
	IsAdmin        bool   `gorm:"default:false"`
	Likes          uint64 `gorm:"default:0"`
}

// EnsureProfile 存在性检查：若提供的 handle 与凭据均非空且不存在对应资料，
// 则创建一个 bcrypt 哈希的管理员资料。资料本身由部署方带外提供，代码只做补齐。
func EnsureProfile(handle, email, password string) error {
	trimmedHandle := strings.TrimSpace(handle)
	trimmedEmail := strings.TrimSpace(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedHandle == "" || trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing Profile
	if err := DB.Where("handle = ?", trimmedHandle).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&Profile{
			Handle:       trimmedHandle,
			DisplayName:  trimmedHandle,
			Email:        trimmedEmail,
			PasswordHash: string(hashed),
			IsAdmin:      true,
		}).Error
	}

	return nil
}
