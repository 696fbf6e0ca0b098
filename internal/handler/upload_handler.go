package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/service"
)

// maxUploadBytes 限制单个上传对象的大小
const maxUploadBytes = 10 << 20

// UploadMedia 处理通用图片上传请求，返回公开 URL。
// 协调器只负责存储，把 URL 写回内容行由调用方自行完成。
func (a *API) UploadMedia(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	purpose := service.Purpose(c.DefaultQuery("purpose", string(service.PurposePost)))

	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	url, err := a.media.Save(profile.ID, purpose, filename, data)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func readUploadedFile(c *gin.Context) ([]byte, string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no image found in the request")
		return nil, "", false
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "image exceeds the 10MB limit")
		return nil, "", false
	}

	opened, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not read the uploaded image")
		return nil, "", false
	}
	defer opened.Close()

	data, err := io.ReadAll(io.LimitReader(opened, maxUploadBytes+1))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not read the uploaded image")
		return nil, "", false
	}

	return data, file.Filename, true
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownPurpose):
		respondError(c, http.StatusBadRequest, "unknown upload purpose")
	case errors.Is(err, service.ErrNotImage), errors.Is(err, service.ErrEmptyUpload):
		respondError(c, http.StatusBadRequest, "only image uploads are allowed")
	default:
		respondError(c, http.StatusInternalServerError, "storing the upload failed, please retry")
	}
}
