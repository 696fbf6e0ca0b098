package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/service"
)

// GetAdminProfile 返回当前管理员的完整资料
func (a *API) GetAdminProfile(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}
	c.JSON(http.StatusOK, adminProfileJSON(profile))
}

// UpdateProfile 应用资料字段补丁并返回最新资料行
func (a *API) UpdateProfile(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	var payload struct {
		DisplayName    *string `json:"display_name"`
		Bio            *string `json:"bio"`
		CommunityLabel *string `json:"community_label"`
		CommunityHref  *string `json:"community_href"`
	}
	if !bindJSON(c, &payload, "invalid profile payload") {
		return
	}

	updated, err := a.profiles.Update(profile.ID, service.ProfileInput{
		DisplayName:    payload.DisplayName,
		Bio:            payload.Bio,
		CommunityLabel: payload.CommunityLabel,
		CommunityHref:  payload.CommunityHref,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "profile not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "saving the profile failed, please retry")
		return
	}

	c.JSON(http.StatusOK, adminProfileJSON(updated))
}

// UploadProfileImage 接收头像或封面图，存储后把公开 URL 合并进资料行。
// kind 取 avatar 或 cover，上传失败时资料保持原样。
func (a *API) UploadProfileImage(kind service.Purpose) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := adminProfile(c)
		if profile == nil {
			respondError(c, http.StatusUnauthorized, "sign in to manage this site")
			return
		}

		data, filename, ok := readUploadedFile(c)
		if !ok {
			return
		}

		url, err := a.media.Save(profile.ID, kind, filename, data)
		if err != nil {
			respondUploadError(c, err)
			return
		}

		patch := service.ProfileInput{}
		switch kind {
		case service.PurposeAvatar:
			patch.AvatarURL = &url
		case service.PurposeCover:
			patch.CoverURL = &url
		default:
			respondError(c, http.StatusBadRequest, "unsupported image kind")
			return
		}

		updated, err := a.profiles.Update(profile.ID, patch)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "image stored but the profile update failed, please retry")
			return
		}

		c.JSON(http.StatusOK, adminProfileJSON(updated))
	}
}
