package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/linkbio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrBrandNotFound 在指定品牌不存在时返回
	ErrBrandNotFound = errors.New("brand not found")
	// ErrBrandInvalidInput 在输入数据不完整时返回
	ErrBrandInvalidInput = errors.New("invalid brand input")
)

// BrandService 负责维护合作品牌集合，排序语义与 LinkService 一致。
type BrandService struct {
	db *gorm.DB
}

// NewBrandService 构造 BrandService
func NewBrandService(gdb *gorm.DB) *BrandService {
	return &BrandService{db: gdb}
}

// BrandInput 描述创建品牌时的初始字段。
type BrandInput struct {
	Name    string
	LogoURL string
	Sort    *int
	Enabled *bool
}

// BrandPatch 描述更新品牌时可修改的字段，nil 指针表示保持不变。
type BrandPatch struct {
	Name    *string
	LogoURL *string
	Sort    *int
	Enabled *bool
}

// List 返回指定资料的品牌集合，排序升序、同值按主键升序。
func (s *BrandService) List(profileID uint, includeHidden bool) ([]db.Brand, error) {
	query := s.db.Model(&db.Brand{}).Where("profile_id = ?", profileID)
	if !includeHidden {
		query = query.Where("enabled = ?", true)
	}

	var items []db.Brand
	if err := query.Order("sort ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return items, nil
}

// Create 新建品牌，未指定排序时自动排到现有条目之后。
func (s *BrandService) Create(profileID uint, input BrandInput) (*db.Brand, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBrandInvalidInput)
	}

	sortValue, err := s.resolveSort(profileID, input.Sort)
	if err != nil {
		return nil, err
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	brand := db.Brand{
		ProfileID: profileID,
		Name:      strings.TrimSpace(input.Name),
		LogoURL:   strings.TrimSpace(input.LogoURL),
		Sort:      sortValue,
		Enabled:   enabled,
	}

	if err := s.db.Create(&brand).Error; err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	return &brand, nil
}

// Update 应用部分更新并返回完整的最新行。
func (s *BrandService) Update(profileID, id uint, patch BrandPatch) (*db.Brand, error) {
	var brand db.Brand
	if err := s.db.Where("id = ? AND profile_id = ?", id, profileID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("find brand: %w", err)
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrBrandInvalidInput)
		}
		brand.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.LogoURL != nil {
		brand.LogoURL = strings.TrimSpace(*patch.LogoURL)
	}
	if patch.Sort != nil {
		brand.Sort = *patch.Sort
	}
	if patch.Enabled != nil {
		brand.Enabled = *patch.Enabled
	}

	if err := s.db.Save(&brand).Error; err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}

	return &brand, nil
}

// Delete 删除指定品牌
func (s *BrandService) Delete(profileID, id uint) error {
	result := s.db.Where("profile_id = ?", profileID).Delete(&db.Brand{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete brand: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBrandNotFound
	}
	return nil
}

func (s *BrandService) resolveSort(profileID uint, sortPtr *int) (int, error) {
	if sortPtr != nil {
		return *sortPtr, nil
	}

	var maxSort int
	if err := s.db.Model(&db.Brand{}).
		Where("profile_id = ?", profileID).
		Select(fmt.Sprintf("COALESCE(MAX(sort), %d)", -sortStep)).
		Scan(&maxSort).Error; err != nil {
		return 0, fmt.Errorf("resolve brand sort: %w", err)
	}

	return maxSort + sortStep, nil
}
