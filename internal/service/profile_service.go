package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/linkbio/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound 在指定资料不存在时返回
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidCredentials 在邮箱或密码不匹配时返回
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ProfileService 负责维护站点主人资料与公开点赞计数。
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// ProfileInput 描述更新资料时可设置的字段，nil 指针表示不修改。
type ProfileInput struct {
	DisplayName    *string
	Bio            *string
	CommunityLabel *string
	CommunityHref  *string
	AvatarURL      *string
	CoverURL       *string
}

// Get 根据主键获取资料
func (s *ProfileService) Get(id uint) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// GetByHandle 根据 handle 获取资料
func (s *ProfileService) GetByHandle(handle string) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.Where("handle = ?", strings.TrimSpace(handle)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile by handle: %w", err)
	}
	return &profile, nil
}

// Authenticate 校验邮箱与密码，成功时返回对应资料。
// 无论邮箱不存在还是密码错误都返回同一个错误，避免泄漏账号存在性。
func (s *ProfileService) Authenticate(email, password string) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.Where("email = ?", strings.TrimSpace(email)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &profile, nil
}

// Update 应用部分字段更新并返回数据库中的完整资料行。
// 相同补丁重复提交得到相同结果，重试安全。
func (s *ProfileService) Update(id uint, input ProfileInput) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	if input.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.CommunityLabel != nil {
		profile.CommunityLabel = strings.TrimSpace(*input.CommunityLabel)
	}
	if input.CommunityHref != nil {
		profile.CommunityHref = strings.TrimSpace(*input.CommunityHref)
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.CoverURL != nil {
		profile.CoverURL = *input.CoverURL
	}

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return &profile, nil
}

// Like 以单条原子 UPDATE 递增点赞计数，并发访客不会丢失计数。
// 返回递增后的最新值。
func (s *ProfileService) Like(handle string) (uint64, error) {
	result := s.db.Model(&db.Profile{}).
		Where("handle = ?", strings.TrimSpace(handle)).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if result.Error != nil {
		return 0, fmt.Errorf("increment likes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrProfileNotFound
	}

	var likes uint64
	if err := s.db.Model(&db.Profile{}).
		Where("handle = ?", strings.TrimSpace(handle)).
		Select("likes").Scan(&likes).Error; err != nil {
		return 0, fmt.Errorf("read likes: %w", err)
	}

	return likes, nil
}
