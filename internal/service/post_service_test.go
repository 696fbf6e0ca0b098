package service

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/linkbio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:post-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func TestPostService_CreateStartsAsDraftWithTimestampedSlug(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post, err := svc.Create(1, "Hello World", now)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if matched := regexp.MustCompile(`^hello-world-\d+$`).MatchString(post.Slug); !matched {
		t.Fatalf("expected slug hello-world-<numeric-suffix>, got %q", post.Slug)
	}
	if post.PublishedAt != nil {
		t.Fatalf("fresh posts must be drafts, got published_at %v", post.PublishedAt)
	}
	if post.ID == 0 {
		t.Fatal("stored row must carry the server-assigned id")
	}
}

func TestPostService_CreateRequiresTitle(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	if _, err := svc.Create(1, "   ", time.Now()); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestPostService_ListNewestFirstScopedToOwner(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	first, err := svc.Create(1, "Primero", time.Now())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := svc.Create(1, "Segundo", time.Now())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(2, "Ajeno", time.Now()); err != nil {
		t.Fatalf("create for other owner: %v", err)
	}

	posts, err := svc.List(1)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts for owner 1, got %d", len(posts))
	}
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Fatalf("expected newest first, got %d then %d", posts[0].ID, posts[1].ID)
	}
}

func TestPostService_SlugUniquePerOwnerOnly(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	now := time.Now()
	mine, err := svc.Create(1, "Mi Post", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := svc.Create(2, "Otro Post", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another owner may reuse the slug.
	fields := PostFields{Title: other.Title, Slug: mine.Slug}
	if _, err := svc.Update(2, other.ID, fields); err != nil {
		t.Fatalf("same slug under a different owner must be allowed: %v", err)
	}

	second, err := svc.Create(1, "Segundo", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(1, second.ID, PostFields{Title: second.Title, Slug: mine.Slug}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken for a duplicate slug under one owner, got %v", err)
	}
}

func TestPostService_UpdatePersistsEditableFields(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	created, err := svc.Create(1, "Hola", time.Now())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	publishedAt := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	fields := PostFields{
		Title:       "Hola Mundo",
		Slug:        created.Slug,
		Excerpt:     "un extracto",
		ContentMD:   "# Hola\ncontenido",
		CoverURL:    "/static/media/1/post/x.jpg",
		PublishedAt: &publishedAt,
	}

	updated, err := svc.Update(1, created.ID, fields)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != fields.Title || updated.Excerpt != fields.Excerpt ||
		updated.ContentMD != fields.ContentMD || updated.CoverURL != fields.CoverURL {
		t.Fatal("editable fields not persisted")
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(publishedAt) {
		t.Fatalf("published_at not persisted, got %v", updated.PublishedAt)
	}

	// Retrying the same fields must land on the same state.
	again, err := svc.Update(1, created.ID, fields)
	if err != nil {
		t.Fatalf("retry update: %v", err)
	}
	if again.Title != updated.Title || again.Slug != updated.Slug {
		t.Fatal("retry with the same fields diverged")
	}
}

func TestPostService_UpdateCanUnpublish(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	created, err := svc.Create(1, "Hola", time.Now())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	publishedAt := time.Now().UTC()
	if _, err := svc.Update(1, created.ID, PostFields{Title: "Hola", Slug: created.Slug, PublishedAt: &publishedAt}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	unpublished, err := svc.Update(1, created.ID, PostFields{Title: "Hola", Slug: created.Slug, PublishedAt: nil})
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if unpublished.PublishedAt != nil {
		t.Fatalf("expected draft again, got %v", unpublished.PublishedAt)
	}
}

func TestPostService_PublicLookupHidesDrafts(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	created, err := svc.Create(1, "Oculto", time.Now())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetPublishedBySlug(1, created.Slug); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("drafts must be invisible on the public surface, got %v", err)
	}

	publishedAt := time.Now().UTC()
	if _, err := svc.Update(1, created.ID, PostFields{Title: created.Title, Slug: created.Slug, PublishedAt: &publishedAt}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	post, err := svc.GetPublishedBySlug(1, created.Slug)
	if err != nil {
		t.Fatalf("get published: %v", err)
	}
	if post.ID != created.ID {
		t.Fatalf("unexpected post %d", post.ID)
	}
}

func TestPostService_DeleteScopedToOwner(t *testing.T) {
	gdb := setupPostServiceTestDB(t)
	svc := NewPostService(gdb)

	created, err := svc.Create(1, "Hola", time.Now())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(2, created.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for another owner, got %v", err)
	}
	if err := svc.Delete(1, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(1, created.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("second delete must report not found, got %v", err)
	}
}
