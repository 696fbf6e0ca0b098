package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/linkbio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupContactServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:contact-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func validContactInput() ContactInput {
	return ContactInput{
		Name:        "Ana",
		SenderEmail: "ana@example.com",
		ServiceType: "Publicidad",
		Company:     "Acme",
		Message:     "Hola, quiero colaborar",
	}
}

func TestContactService_SubmitStoresMessageWithSiteHandle(t *testing.T) {
	gdb := setupContactServiceTestDB(t)
	svc := NewContactService(gdb, "mayra")

	stored, err := svc.Submit(validContactInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !stored {
		t.Fatal("expected the message to be stored")
	}

	var message db.ContactMessage
	if err := gdb.First(&message).Error; err != nil {
		t.Fatalf("read message: %v", err)
	}
	if message.SiteHandle != "mayra" {
		t.Fatalf("expected site handle to be stamped, got %q", message.SiteHandle)
	}
	if message.SenderEmail != "ana@example.com" {
		t.Fatalf("unexpected sender: %q", message.SenderEmail)
	}
}

func TestContactService_HoneypotDiscardsSilently(t *testing.T) {
	gdb := setupContactServiceTestDB(t)
	svc := NewContactService(gdb, "mayra")

	input := validContactInput()
	input.Website = "https://spam.example.com"

	stored, err := svc.Submit(input)
	if err != nil {
		t.Fatalf("a tripped honeypot must look like success, got %v", err)
	}
	if stored {
		t.Fatal("a tripped honeypot must not store anything")
	}

	var count int64
	if err := gdb.Model(&db.ContactMessage{}).Count(&count).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no stored message, got %d", count)
	}
}

func TestContactService_SubmitValidation(t *testing.T) {
	gdb := setupContactServiceTestDB(t)
	svc := NewContactService(gdb, "mayra")

	cases := map[string]ContactInput{
		"missing name":    {SenderEmail: "a@b.co", Message: "hola"},
		"missing email":   {Name: "Ana", Message: "hola"},
		"malformed email": {Name: "Ana", SenderEmail: "not-an-email", Message: "hola"},
		"missing message": {Name: "Ana", SenderEmail: "a@b.co"},
	}

	for name, input := range cases {
		if _, err := svc.Submit(input); !errors.Is(err, ErrContactInvalidInput) {
			t.Errorf("%s: expected ErrContactInvalidInput, got %v", name, err)
		}
	}

	var count int64
	if err := gdb.Model(&db.ContactMessage{}).Count(&count).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalid input must not store rows, got %d", count)
	}
}
