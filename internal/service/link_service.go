package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/linkbio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrSocialLinkNotFound 在指定的外链不存在时返回
	ErrSocialLinkNotFound = errors.New("social link not found")
	// ErrSocialLinkInvalidInput 在输入数据不完整时返回
	ErrSocialLinkInvalidInput = errors.New("invalid social link input")
)

// sortStep 为新建条目预留的排序间隔，便于后续手工插入。
const sortStep = 10

// LinkService 负责维护首页展示的外链集合。
// 所有查询强制按归属资料过滤，排序升序、同序按插入先后。
type LinkService struct {
	db *gorm.DB
}

// NewLinkService 构造 LinkService
func NewLinkService(gdb *gorm.DB) *LinkService {
	return &LinkService{db: gdb}
}

// SocialLinkInput 描述创建外链时的初始字段。
// Sort/Enabled 使用指针判断是否显式传入。
type SocialLinkInput struct {
	Platform string
	Label    string
	Href     string
	Sort     *int
	Enabled  *bool
}

// SocialLinkPatch 描述更新外链时可修改的字段，nil 指针表示保持不变。
type SocialLinkPatch struct {
	Platform *string
	Label    *string
	Href     *string
	Sort     *int
	Enabled  *bool
}

// List 返回指定资料的外链集合，默认按排序值升序、同值按主键升序。
// includeHidden 为 false 时过滤掉 Enabled=false 的条目。
func (s *LinkService) List(profileID uint, includeHidden bool) ([]db.SocialLink, error) {
	query := s.db.Model(&db.SocialLink{}).Where("profile_id = ?", profileID)
	if !includeHidden {
		query = query.Where("enabled = ?", true)
	}

	var items []db.SocialLink
	if err := query.Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	return items, nil
}

// Create 新建外链，未指定排序时自动排到现有条目之后。
func (s *LinkService) Create(profileID uint, input SocialLinkInput) (*db.SocialLink, error) {
	if err := validateSocialLinkInput(input); err != nil {
		return nil, err
	}

	sortValue, err := s.resolveSort(profileID, input.Sort)
	if err != nil {
		return nil, err
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	link := db.SocialLink{
		ProfileID: profileID,
		Platform:  strings.TrimSpace(input.Platform),
		Label:     strings.TrimSpace(input.Label),
		Href:      strings.TrimSpace(input.Href),
		Sort:      sortValue,
		Enabled:   enabled,
	}

	if err := s.db.Create(&link).Error; err != nil {
		return nil, fmt.Errorf("create social link: %w", err)
	}

	return &link, nil
}

// Update 应用部分更新并返回完整的最新行。
func (s *LinkService) Update(profileID, id uint, patch SocialLinkPatch) (*db.SocialLink, error) {
	var link db.SocialLink
	if err := s.db.Where("id = ? AND profile_id = ?", id, profileID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSocialLinkNotFound
		}
		return nil, fmt.Errorf("find social link: %w", err)
	}

	if patch.Platform != nil {
		if strings.TrimSpace(*patch.Platform) == "" {
			return nil, fmt.Errorf("%w: platform is required", ErrSocialLinkInvalidInput)
		}
		link.Platform = strings.TrimSpace(*patch.Platform)
	}
	if patch.Label != nil {
		if strings.TrimSpace(*patch.Label) == "" {
			return nil, fmt.Errorf("%w: label is required", ErrSocialLinkInvalidInput)
		}
		link.Label = strings.TrimSpace(*patch.Label)
	}
	if patch.Href != nil {
		if strings.TrimSpace(*patch.Href) == "" {
			return nil, fmt.Errorf("%w: href is required", ErrSocialLinkInvalidInput)
		}
		link.Href = strings.TrimSpace(*patch.Href)
	}
	if patch.Sort != nil {
		link.Sort = *patch.Sort
	}
	if patch.Enabled != nil {
		link.Enabled = *patch.Enabled
	}

	if err := s.db.Save(&link).Error; err != nil {
		return nil, fmt.Errorf("update social link: %w", err)
	}

	return &link, nil
}

// Delete 删除指定外链
func (s *LinkService) Delete(profileID, id uint) error {
	result := s.db.Where("profile_id = ?", profileID).Delete(&db.SocialLink{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete social link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSocialLinkNotFound
	}
	return nil
}

func (s *LinkService) resolveSort(profileID uint, sortPtr *int) (int, error) {
	if sortPtr != nil {
		return *sortPtr, nil
	}

	var maxSort int
	if err := s.db.Model(&db.SocialLink{}).
		Where("profile_id = ?", profileID).
		Select(fmt.Sprintf("COALESCE(MAX(sort), %d)", -sortStep)).
		Scan(&maxSort).Error; err != nil {
		return 0, fmt.Errorf("resolve social link sort: %w", err)
	}

	return maxSort + sortStep, nil
}

func validateSocialLinkInput(input SocialLinkInput) error {
	if strings.TrimSpace(input.Platform) == "" {
		return fmt.Errorf("%w: platform is required", ErrSocialLinkInvalidInput)
	}
	if strings.TrimSpace(input.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrSocialLinkInvalidInput)
	}
	if strings.TrimSpace(input.Href) == "" {
		return fmt.Errorf("%w: href is required", ErrSocialLinkInvalidInput)
	}
	return nil
}
