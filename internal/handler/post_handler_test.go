package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/linkbio/internal/db"
	"github.com/linkbio/internal/editor"
)

func seedPost(t *testing.T, api *API, profileID uint, title string) *db.Post {
	t.Helper()
	post, err := api.posts.Create(profileID, title, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func TestCreatePostOpensEditorSession(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)

	w := invokeJSON(t, api.CreatePost, http.MethodPost, "/admin/api/posts",
		map[string]string{"title": "First Post"}, profile)
	expectStatus(t, w, http.StatusCreated)

	session := api.editors.ForProfile(profile.ID)
	if session.State() != editor.Editing {
		t.Fatal("creating a post must open an editor session")
	}
	draft, ok := session.Draft()
	if !ok || draft.Title != "First Post" {
		t.Fatalf("expected draft for the new post, got %+v", draft)
	}
}

func TestCreatePostRequiresTitle(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)

	w := invokeJSON(t, api.CreatePost, http.MethodPost, "/admin/api/posts",
		map[string]string{"title": "   "}, profile)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestOpenPatchSaveFlow(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)
	post := seedPost(t, api, profile.ID, "Editing Journey")

	w := invokeJSONWithParam(t, api.OpenPost, http.MethodPost,
		fmt.Sprintf("/admin/api/posts/%d/open", post.ID), nil, profile, "id", fmt.Sprint(post.ID))
	expectStatus(t, w, http.StatusOK)

	excerpt := "a short summary"
	w = invokeJSON(t, api.PatchDraft, http.MethodPatch, "/admin/api/draft",
		map[string]string{"excerpt": excerpt, "content_md": "# Hello"}, profile)
	expectStatus(t, w, http.StatusOK)

	// 补丁只在内存里合并,保存前数据库不动
	var stored db.Post
	if err := gdb.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if stored.Excerpt != "" {
		t.Fatal("patching a draft must not touch the stored row")
	}

	w = invokeJSON(t, api.TogglePublishDraft, http.MethodPost, "/admin/api/draft/publish", nil, profile)
	expectStatus(t, w, http.StatusOK)

	w = invokeJSON(t, api.SaveDraft, http.MethodPost, "/admin/api/draft/save", nil, profile)
	expectStatus(t, w, http.StatusOK)
	if adopted := decodeBody(t, w)["adopted"]; adopted != true {
		t.Fatalf("expected the draft to adopt the canonical row, got %v", adopted)
	}

	if err := gdb.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if stored.Excerpt != excerpt || stored.ContentMD != "# Hello" {
		t.Fatalf("expected saved fields, got %+v", stored)
	}
	if stored.PublishedAt == nil {
		t.Fatal("expected the save to publish the post")
	}

	session := api.editors.ForProfile(profile.ID)
	if session.State() != editor.Editing {
		t.Fatal("a successful save must return the session to editing")
	}
}

func TestPatchDraftWithoutOpenDraft(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)

	w := invokeJSON(t, api.PatchDraft, http.MethodPatch, "/admin/api/draft",
		map[string]string{"title": "orphan"}, profile)
	expectStatus(t, w, http.StatusConflict)
}

func TestPatchingTitleNeverMovesSlug(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)
	post := seedPost(t, api, profile.ID, "Original Title")

	invokeJSONWithParam(t, api.OpenPost, http.MethodPost,
		fmt.Sprintf("/admin/api/posts/%d/open", post.ID), nil, profile, "id", fmt.Sprint(post.ID))

	w := invokeJSON(t, api.PatchDraft, http.MethodPatch, "/admin/api/draft",
		map[string]string{"title": "Completely New Title"}, profile)
	expectStatus(t, w, http.StatusOK)

	draft, _ := api.editors.ForProfile(profile.ID).Draft()
	if draft.Slug != post.Slug {
		t.Fatalf("title edits must not move the slug: %q vs %q", draft.Slug, post.Slug)
	}

	w = invokeJSON(t, api.RegenerateDraftSlug, http.MethodPost, "/admin/api/draft/slug", nil, profile)
	expectStatus(t, w, http.StatusOK)

	draft, _ = api.editors.ForProfile(profile.ID).Draft()
	if draft.Slug != "completely-new-title" {
		t.Fatalf("explicit regeneration must derive the slug from the title, got %q", draft.Slug)
	}
}

func TestSaveDraftKeepsEditsOnSlugConflict(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)
	taken := seedPost(t, api, profile.ID, "Taken")
	post := seedPost(t, api, profile.ID, "Mine")

	invokeJSONWithParam(t, api.OpenPost, http.MethodPost,
		fmt.Sprintf("/admin/api/posts/%d/open", post.ID), nil, profile, "id", fmt.Sprint(post.ID))

	w := invokeJSON(t, api.PatchDraft, http.MethodPatch, "/admin/api/draft",
		map[string]string{"slug": taken.Slug, "excerpt": "keep me"}, profile)
	expectStatus(t, w, http.StatusOK)

	w = invokeJSON(t, api.SaveDraft, http.MethodPost, "/admin/api/draft/save", nil, profile)
	expectStatus(t, w, http.StatusConflict)

	// 失败的保存要保留草稿和错误信息,让用户改完再试
	session := api.editors.ForProfile(profile.ID)
	draft, ok := session.Draft()
	if !ok || draft.Excerpt != "keep me" {
		t.Fatalf("failed save must keep the draft edits, got %+v", draft)
	}
	if session.LastError() == "" {
		t.Fatal("failed save must record a human readable error")
	}

	var stored db.Post
	if err := gdb.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if stored.Excerpt != "" {
		t.Fatal("a failed save must leave the stored row untouched")
	}
}

func TestDeletePostRequiresConfirmation(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)
	post := seedPost(t, api, profile.ID, "Doomed")

	w := invokeJSONWithParam(t, api.DeletePost, http.MethodDelete,
		fmt.Sprintf("/admin/api/posts/%d", post.ID), nil, profile, "id", fmt.Sprint(post.ID))
	expectStatus(t, w, http.StatusBadRequest)

	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	if count != 1 {
		t.Fatal("an unconfirmed delete must not remove the post")
	}
}

func TestDeletePostClosesOpenDraft(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)
	post := seedPost(t, api, profile.ID, "Doomed")

	invokeJSONWithParam(t, api.OpenPost, http.MethodPost,
		fmt.Sprintf("/admin/api/posts/%d/open", post.ID), nil, profile, "id", fmt.Sprint(post.ID))

	w := invokeJSONWithParam(t, api.DeletePost, http.MethodDelete,
		fmt.Sprintf("/admin/api/posts/%d?confirm=true", post.ID), nil, profile, "id", fmt.Sprint(post.ID))
	expectStatus(t, w, http.StatusOK)

	if api.editors.ForProfile(profile.ID).State() != editor.Viewing {
		t.Fatal("deleting the open post must return the editor to viewing")
	}

	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	if count != 0 {
		t.Fatal("confirmed delete must remove the post")
	}
}
