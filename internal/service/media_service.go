package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var (
	// ErrUnknownPurpose 在用途标签不在固定枚举内时返回
	ErrUnknownPurpose = errors.New("unknown upload purpose")
	// ErrNotImage 在上传内容无法解码为图片时返回
	ErrNotImage = errors.New("upload is not a recognized image")
	// ErrEmptyUpload 在上传内容为空时返回
	ErrEmptyUpload = errors.New("upload is empty")
)

// Purpose 枚举上传的归属用途，仅决定存储路径布局。
type Purpose string

const (
	PurposeAvatar Purpose = "avatar"
	PurposeCover  Purpose = "cover"
	PurposeBrand  Purpose = "brand"
	PurposePost   Purpose = "post"
)

// MediaStore persists uploads under a per-owner, per-purpose layout and
// yields stable public URLs. Every upload gets a fresh path: an earlier
// image may still be referenced from markdown bodies, so paths are never
// reused or overwritten.
type MediaStore struct {
	dir     string
	urlPath string
}

// NewMediaStore 构造 MediaStore。dir 为磁盘目录，urlPath 为对外暴露的 URL 前缀。
func NewMediaStore(dir, urlPath string) *MediaStore {
	return &MediaStore{dir: dir, urlPath: strings.TrimRight(urlPath, "/")}
}

// Save writes the upload to {ownerID}/{purpose}/{uuid}.{ext} and returns its
// public URL. The original extension is kept when present, otherwise "bin".
// Content must decode as an image; the store never touches content rows —
// merging the URL into a record is the caller's job.
func (m *MediaStore) Save(ownerID uint, purpose Purpose, filename string, data []byte) (string, error) {
	switch purpose {
	case PurposeAvatar, PurposeCover, PurposeBrand, PurposePost:
	default:
		return "", ErrUnknownPurpose
	}

	if len(data) == 0 {
		return "", ErrEmptyUpload
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrNotImage
	}

	rel := path.Join(
		strconv.FormatUint(uint64(ownerID), 10),
		string(purpose),
		fmt.Sprintf("%s.%s", uuid.New().String(), extensionOf(filename)),
	)

	full := filepath.Join(m.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return m.urlPath + "/" + rel, nil
}

func extensionOf(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "bin"
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "bin"
		}
	}
	return ext
}
