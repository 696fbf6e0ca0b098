package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/service"
	"github.com/linkbio/internal/view"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// GetProfilePage 拼装公开主页需要的全部数据：资料、社交链接、品牌墙。
// 只返回公开字段，邮箱与口令散列永不出站。
func (a *API) GetProfilePage(c *gin.Context) {
	profile, err := a.profiles.GetByHandle(a.siteHandle)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "this site is not set up yet")
			return
		}
		respondError(c, http.StatusInternalServerError, "loading the page failed, please retry")
		return
	}

	links, err := a.links.List(profile.ID, false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "loading the page failed, please retry")
		return
	}
	brands, err := a.brands.List(profile.ID, false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "loading the page failed, please retry")
		return
	}

	linkItems := make([]gin.H, 0, len(links))
	for _, link := range links {
		linkItems = append(linkItems, gin.H{
			"id":       link.ID,
			"platform": link.Platform,
			"label":    link.Label,
			"href":     link.Href,
			"icon":     view.IconKeyFor(link.Platform),
		})
	}

	brandItems := make([]gin.H, 0, len(brands))
	for _, brand := range brands {
		brandItems = append(brandItems, gin.H{
			"id":       brand.ID,
			"name":     brand.Name,
			"logo_url": brand.LogoURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"handle":          profile.Handle,
			"display_name":    profile.DisplayName,
			"bio":             profile.Bio,
			"avatar_url":      profile.AvatarURL,
			"cover_url":       profile.CoverURL,
			"community_label": profile.CommunityLabel,
			"community_href":  profile.CommunityHref,
			"likes":           profile.Likes,
		},
		"links":  linkItems,
		"brands": brandItems,
	})
}

// LikeProfile 无需登录的点赞，单条 UPDATE 自增，返回新计数
func (a *API) LikeProfile(c *gin.Context) {
	likes, err := a.profiles.Like(a.siteHandle)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "this site is not set up yet")
			return
		}
		respondError(c, http.StatusInternalServerError, "recording the like failed, please retry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// ListBlogPosts 公开文章列表，仅含已发布文章，按发布时间倒序
func (a *API) ListBlogPosts(c *gin.Context) {
	profile, err := a.profiles.GetByHandle(a.siteHandle)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "this site is not set up yet")
			return
		}
		respondError(c, http.StatusInternalServerError, "loading posts failed, please retry")
		return
	}

	posts, err := a.posts.ListPublished(profile.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "loading posts failed, please retry")
		return
	}

	items := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		items = append(items, gin.H{
			"title":        post.Title,
			"slug":         post.Slug,
			"excerpt":      post.Excerpt,
			"cover_url":    post.CoverURL,
			"published_at": post.PublishedAt,
		})
	}
	c.JSON(http.StatusOK, items)
}

// GetBlogPost 公开文章详情：正文经 goldmark 渲染并由 bluemonday 白名单
// 过滤，同时生成各平台的分享链接。草稿对外等同不存在。
func (a *API) GetBlogPost(c *gin.Context) {
	profile, err := a.profiles.GetByHandle(a.siteHandle)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "loading the post failed, please retry")
		return
	}

	post, err := a.posts.GetPublishedBySlug(profile.ID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "loading the post failed, please retry")
		return
	}

	var rendered bytes.Buffer
	if err := markdownEngine.Convert([]byte(post.ContentMD), &rendered); err != nil {
		respondError(c, http.StatusInternalServerError, "rendering the post failed, please retry")
		return
	}
	body := sanitizer.Sanitize(rendered.String())

	postURL := a.siteBaseURL + "/blog/" + url.PathEscape(post.Slug)
	c.JSON(http.StatusOK, gin.H{
		"title":        post.Title,
		"slug":         post.Slug,
		"excerpt":      post.Excerpt,
		"cover_url":    post.CoverURL,
		"published_at": post.PublishedAt,
		"content_html": body,
		"share":        shareLinks(post.Title, postURL),
	})
}

// SubmitContact 公开联系表单。蜜罐命中与正常成功返回一致的响应，
// 校验失败返回可内联显示的错误信息。
func (a *API) SubmitContact(c *gin.Context) {
	var payload struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		ServiceType string `json:"service_type"`
		Company     string `json:"company"`
		Message     string `json:"message"`
		Website     string `json:"website"`
	}
	if !bindJSON(c, &payload, "invalid contact submission") {
		return
	}

	_, err := a.contact.Submit(service.ContactInput{
		Name:        payload.Name,
		SenderEmail: payload.Email,
		ServiceType: payload.ServiceType,
		Company:     payload.Company,
		Message:     payload.Message,
		Website:     payload.Website,
	})
	if err != nil {
		if errors.Is(err, service.ErrContactInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "sending the message failed, please retry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// shareLinks 为文章构造 WhatsApp / X / Facebook 的分享地址
func shareLinks(title, postURL string) gin.H {
	encodedURL := url.QueryEscape(postURL)
	encodedTitle := url.QueryEscape(title)
	return gin.H{
		"whatsapp": "https://wa.me/?text=" + encodedTitle + "%20" + encodedURL,
		"x":        "https://twitter.com/intent/tweet?text=" + encodedTitle + "&url=" + encodedURL,
		"facebook": "https://www.facebook.com/sharer/sharer.php?u=" + encodedURL,
	}
}
