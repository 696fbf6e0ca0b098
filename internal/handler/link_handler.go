package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/service"
	"github.com/linkbio/internal/view"
)

// GetLinks 返回当前管理员的外链集合（含隐藏条目）
func (a *API) GetLinks(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	links, err := a.links.List(profile.ID, true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "loading social links failed, please retry")
		return
	}
	c.JSON(http.StatusOK, links)
}

// CreateLink 新建外链
func (a *API) CreateLink(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	var payload struct {
		Platform string `json:"platform"`
		Label    string `json:"label"`
		Href     string `json:"href"`
		Sort     *int   `json:"sort"`
		Enabled  *bool  `json:"enabled"`
	}
	if !bindJSON(c, &payload, "invalid social link payload") {
		return
	}

	link, err := a.links.Create(profile.ID, service.SocialLinkInput{
		Platform: payload.Platform,
		Label:    payload.Label,
		Href:     payload.Href,
		Sort:     payload.Sort,
		Enabled:  payload.Enabled,
	})
	if err != nil {
		if errors.Is(err, service.ErrSocialLinkInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "creating the social link failed, please retry")
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UpdateLink 按补丁更新外链并返回最新行
func (a *API) UpdateLink(c *gin.Context) {
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

	var payload struct {
		Platform *string `json:"platform"`
		Label    *string `json:"label"`
		Href     *string `json:"href"`
		Sort     *int    `json:"sort"`
		Enabled  *bool   `json:"enabled"`
	}
	if !bindJSON(c, &payload, "invalid social link payload") {
		return
	}

	link, err := a.links.Update(profile.ID, id, service.SocialLinkPatch{
		Platform: payload.Platform,
		Label:    payload.Label,
		Href:     payload.Href,
		Sort:     payload.Sort,
		Enabled:  payload.Enabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSocialLinkNotFound):
			respondError(c, http.StatusNotFound, "social link not found")
		case errors.Is(err, service.ErrSocialLinkInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "updating the social link failed, please retry")
		}
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeleteLink 删除外链
func (a *API) DeleteLink(c *gin.Context) {
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

	if err := a.links.Delete(profile.ID, id); err != nil {
		if errors.Is(err, service.ErrSocialLinkNotFound) {
			respondError(c, http.StatusNotFound, "social link not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "deleting the social link failed, please retry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetSocialIconOptions 返回后台可选的图标集合
func (a *API) GetSocialIconOptions(c *gin.Context) {
	c.JSON(http.StatusOK, view.SocialIconOptions())
}
