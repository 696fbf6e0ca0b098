package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/db"
	"github.com/linkbio/internal/editor"
	"github.com/linkbio/internal/service"
)

// GetPosts 获取文章列表（含草稿），创建时间倒序
func (a *API) GetPosts(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	posts, err := a.posts.List(profile.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "loading posts failed, please retry")
		return
	}

	items := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		items = append(items, postJSON(post))
	}
	c.JSON(http.StatusOK, items)
}

// CreatePost 以标题新建草稿并立即打开编辑会话
func (a *API) CreatePost(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	var payload struct {
		Title string `json:"title"`
	}
	if !bindJSON(c, &payload, "a title is required") {
		return
	}

	post, err := a.posts.Create(profile.ID, payload.Title, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			respondError(c, http.StatusBadRequest, "a title is required")
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, http.StatusConflict, "that slug is already in use")
		default:
			respondError(c, http.StatusInternalServerError, "creating the post failed, please retry")
		}
		return
	}

	a.editors.ForProfile(profile.ID).Open(*post)
	c.JSON(http.StatusCreated, postJSON(*post))
}

// OpenPost 把指定文章克隆进编辑会话
func (a *API) OpenPost(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Get(profile.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "loading the post failed, please retry")
		return
	}

	session := a.editors.ForProfile(profile.ID)
	session.Open(*post)
	c.JSON(http.StatusOK, draftJSON(session))
}

// GetDraft 返回当前编辑会话的草稿
func (a *API) GetDraft(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	session := a.editors.ForProfile(profile.ID)
	if _, ok := session.Draft(); !ok {
		respondError(c, http.StatusNotFound, "no draft is open")
		return
	}
	c.JSON(http.StatusOK, draftJSON(session))
}

// PatchDraft 把部分字段补丁合并进草稿，纯内存操作，不触网
func (a *API) PatchDraft(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	var payload struct {
		Title     *string `json:"title"`
		Slug      *string `json:"slug"`
		Excerpt   *string `json:"excerpt"`
		ContentMD *string `json:"content_md"`
		CoverURL  *string `json:"cover_url"`
	}
	if !bindJSON(c, &payload, "invalid draft patch") {
		return
	}

	session := a.editors.ForProfile(profile.ID)
	err := session.Merge(editor.Patch{
		Title:     payload.Title,
		Slug:      payload.Slug,
		Excerpt:   payload.Excerpt,
		ContentMD: payload.ContentMD,
		CoverURL:  payload.CoverURL,
	})
	if !respondDraftStateError(c, err) {
		return
	}

	c.JSON(http.StatusOK, draftJSON(session))
}

// TogglePublishDraft 翻转草稿的发布时间戳：空变当前时刻，非空归零
func (a *API) TogglePublishDraft(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	session := a.editors.ForProfile(profile.ID)
	if !respondDraftStateError(c, session.TogglePublish(time.Now().UTC())) {
		return
	}
	c.JSON(http.StatusOK, draftJSON(session))
}

// RegenerateDraftSlug 显式地从当前标题重算 slug
func (a *API) RegenerateDraftSlug(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	session := a.editors.ForProfile(profile.ID)
	if !respondDraftStateError(c, session.RegenerateSlug()) {
		return
	}
	c.JSON(http.StatusOK, draftJSON(session))
}

// SaveDraft persists the draft's editable fields. On success, draft adopts
// the canonical stored row; on failure, the draft survives untouched and the
// error is surfaced for an explicit user retry.
func (a *API) SaveDraft(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	session := a.editors.ForProfile(profile.ID)
	snapshot, token, err := session.BeginSave()
	if !respondDraftStateError(c, err) {
		return
	}

	stored, err := a.posts.Update(profile.ID, snapshot.ID, service.PostFields{
		Title:       snapshot.Title,
		Slug:        snapshot.Slug,
		Excerpt:     snapshot.Excerpt,
		ContentMD:   snapshot.ContentMD,
		CoverURL:    snapshot.CoverURL,
		PublishedAt: snapshot.PublishedAt,
	})
	if err != nil {
		message := "saving the post failed, please retry"
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			message = "that slug is already in use"
			status = http.StatusConflict
		case errors.Is(err, service.ErrTitleRequired):
			message = "a title is required"
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrPostNotFound):
			message = "post no longer exists"
			status = http.StatusNotFound
		}
		session.FailSave(token, message)
		respondError(c, status, message)
		return
	}

	// 草稿在保存途中被关闭或替换时丢弃迟到的响应
	adopted := session.CompleteSave(token, *stored)
	c.JSON(http.StatusOK, gin.H{
		"post":    postJSON(*stored),
		"adopted": adopted,
	})
}

// CloseDraft 关闭编辑会话，回到列表态
func (a *API) CloseDraft(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	a.editors.ForProfile(profile.ID).Close()
	c.JSON(http.StatusOK, gin.H{"state": "viewing"})
}

// DeletePost 在显式确认后删除文章；被删文章若正是打开的草稿则退回列表态
func (a *API) DeletePost(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if c.Query("confirm") != "true" {
		respondError(c, http.StatusBadRequest, "deletion requires explicit confirmation")
		return
	}

	if err := a.posts.Delete(profile.ID, id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "deleting the post failed, please retry")
		return
	}

	a.editors.RecordDeleted(id)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// respondDraftStateError 把草稿状态错误翻译为 HTTP 响应，正常时返回 true
func respondDraftStateError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, editor.ErrNotEditing):
		respondError(c, http.StatusConflict, "no draft is open")
	case errors.Is(err, editor.ErrSaveInFlight):
		respondError(c, http.StatusConflict, "a save is already in flight")
	default:
		respondError(c, http.StatusInternalServerError, "editor state error")
	}
	return false
}

func postJSON(post db.Post) gin.H {
	payload := gin.H{
		"id":         post.ID,
		"title":      post.Title,
		"slug":       post.Slug,
		"excerpt":    post.Excerpt,
		"content_md": post.ContentMD,
		"cover_url":  post.CoverURL,
		"published":  post.Published(),
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}
	if post.PublishedAt != nil {
		payload["published_at"] = post.PublishedAt.UTC().Format(time.RFC3339)
	} else {
		payload["published_at"] = nil
	}
	return payload
}

func draftJSON(session *editor.Session) gin.H {
	draft, ok := session.Draft()
	if !ok {
		return gin.H{"state": "viewing"}
	}

	state := "editing"
	if session.State() == editor.Saving {
		state = "saving"
	}

	payload := gin.H{
		"state": state,
		"draft": postJSON(draft),
	}
	if message := session.LastError(); message != "" {
		payload["error"] = message
	}
	return payload
}
