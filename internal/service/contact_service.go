package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/linkbio/internal/db"
	"gorm.io/gorm"
)

// ErrContactInvalidInput 在必填字段缺失或格式错误时返回
var ErrContactInvalidInput = errors.New("invalid contact input")

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ContactService 负责接收公开联系表单的留言。
// 留言只写不读，站点 handle 在构造时固定注入。
type ContactService struct {
	db         *gorm.DB
	siteHandle string
}

// NewContactService 构造 ContactService
func NewContactService(gdb *gorm.DB, siteHandle string) *ContactService {
	return &ContactService{db: gdb, siteHandle: strings.TrimSpace(siteHandle)}
}

// ContactInput 描述一次表单提交。
// Website 是蜜罐字段：正常访客永远不会填写它。
type ContactInput struct {
	Name        string
	SenderEmail string
	ServiceType string
	Company     string
	Message     string
	Website     string
}

// Submit validates and stores one message. A tripped honeypot reports
// success without storing anything, so automated submitters learn nothing
// about the detection. The returned flag says whether a row was written.
func (s *ContactService) Submit(input ContactInput) (bool, error) {
	if strings.TrimSpace(input.Website) != "" {
		return false, nil
	}

	if err := validateContactInput(input); err != nil {
		return false, err
	}

	message := db.ContactMessage{
		Name:        strings.TrimSpace(input.Name),
		SenderEmail: strings.TrimSpace(input.SenderEmail),
		ServiceType: strings.TrimSpace(input.ServiceType),
		Company:     strings.TrimSpace(input.Company),
		Message:     strings.TrimSpace(input.Message),
		SiteHandle:  s.siteHandle,
	}

	if err := s.db.Create(&message).Error; err != nil {
		return false, fmt.Errorf("create contact message: %w", err)
	}

	return true, nil
}

func validateContactInput(input ContactInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrContactInvalidInput)
	}
	email := strings.TrimSpace(input.SenderEmail)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrContactInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: email is malformed", ErrContactInvalidInput)
	}
	if strings.TrimSpace(input.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrContactInvalidInput)
	}
	return nil
}
