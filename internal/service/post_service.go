package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linkbio/internal/db"
	"github.com/linkbio/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrSlugTaken     = errors.New("slug already in use for this profile")
	ErrTitleRequired = errors.New("post title is required")
)

// PostService wraps post related database operations. Every query is scoped
// to the owning profile; rows of other owners are unreachable regardless of
// the ids a caller supplies.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostFields carries the full editable field set the editor submits on save.
// Internal metadata such as timestamps never travels through here.
type PostFields struct {
	Title       string
	Slug        string
	Excerpt     string
	ContentMD   string
	CoverURL    string
	PublishedAt *time.Time
}

// List returns all posts of a profile ordered by creation time descending.
func (s *PostService) List(profileID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Where("profile_id = ?", profileID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListPublished returns the published posts of a profile, newest first.
func (s *PostService) ListPublished(profileID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Where("profile_id = ? AND published_at IS NOT NULL", profileID).
		Order("published_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// Get fetches one post of the given profile by id.
func (s *PostService) Get(profileID, id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Where("id = ? AND profile_id = ?", id, profileID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// GetPublishedBySlug resolves the public per-post page. Drafts are invisible
// here even when the slug matches.
func (s *PostService) GetPublishedBySlug(profileID uint, postSlug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Where("profile_id = ? AND slug = ? AND published_at IS NOT NULL", profileID, postSlug).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return &post, nil
}

// Create inserts a fresh draft with a timestamped slug derived from the
// title, so two posts created from the same title never collide.
func (s *PostService) Create(profileID uint, title string, now time.Time) (*db.Post, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrTitleRequired
	}

	post := db.Post{
		ProfileID: profileID,
		Title:     trimmed,
		Slug:      slug.Unique(trimmed, now),
		Excerpt:   "",
		ContentMD: "",
	}

	if err := s.db.Create(&post).Error; err != nil {
		if isDuplicateSlug(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	return &post, nil
}

// Update persists the full editable field set and returns the stored row so
// the caller can adopt whatever the database actually holds. Retrying the
// same fields is safe.
func (s *PostService) Update(profileID, id uint, fields PostFields) (*db.Post, error) {
	trimmedTitle := strings.TrimSpace(fields.Title)
	if trimmedTitle == "" {
		return nil, ErrTitleRequired
	}

	var post db.Post
	if err := s.db.Where("id = ? AND profile_id = ?", id, profileID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	post.Title = trimmedTitle
	post.Slug = strings.TrimSpace(fields.Slug)
	post.Excerpt = fields.Excerpt
	post.ContentMD = fields.ContentMD
	post.CoverURL = strings.TrimSpace(fields.CoverURL)
	post.PublishedAt = fields.PublishedAt

	if err := s.db.Save(&post).Error; err != nil {
		if isDuplicateSlug(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	return &post, nil
}

// Delete removes one post of the given profile.
func (s *PostService) Delete(profileID, id uint) error {
	result := s.db.Where("profile_id = ?", profileID).Delete(&db.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func isDuplicateSlug(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
