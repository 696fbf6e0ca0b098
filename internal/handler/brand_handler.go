package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/service"
)

// GetBrands 返回当前管理员的品牌集合（含隐藏条目）
func (a *API) GetBrands(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	brands, err := a.brands.List(profile.ID, true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "loading brands failed, please retry")
		return
	}
	c.JSON(http.StatusOK, brands)
}

// CreateBrand 新建品牌
func (a *API) CreateBrand(c *gin.Context) {
	profile := adminProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "sign in to manage this site")
		return
	}

	var payload struct {
		Name    string `json:"name"`
		Sort    *int   `json:"sort"`
		Enabled *bool  `json:"enabled"`
	}
	if !bindJSON(c, &payload, "invalid brand payload") {
		return
	}

	brand, err := a.brands.Create(profile.ID, service.BrandInput{
		Name:    payload.Name,
		Sort:    payload.Sort,
		Enabled: payload.Enabled,
	})
	if err != nil {
		if errors.Is(err, service.ErrBrandInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "creating the brand failed, please retry")
		return
	}

	c.JSON(http.StatusCreated, brand)
}

// UpdateBrand 按补丁更新品牌并返回最新行
func (a *API) UpdateBrand(c *gin.Context) {
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
		Name    *string `json:"name"`
		Sort    *int    `json:"sort"`
		Enabled *bool   `json:"enabled"`
	}
	if !bindJSON(c, &payload, "invalid brand payload") {
		return
	}

	brand, err := a.brands.Update(profile.ID, id, service.BrandPatch{
		Name:    payload.Name,
		Sort:    payload.Sort,
		Enabled: payload.Enabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrandNotFound):
			respondError(c, http.StatusNotFound, "brand not found")
		case errors.Is(err, service.ErrBrandInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "updating the brand failed, please retry")
		}
		return
	}

	c.JSON(http.StatusOK, brand)
}

// UploadBrandLogo 上传品牌 Logo，存储成功后把 URL 合并进品牌行。
// 上传失败时品牌行保持原样，绝不写入不存在对象的 URL。
func (a *API) UploadBrandLogo(c *gin.Context) {
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

	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	url, err := a.media.Save(profile.ID, service.PurposeBrand, filename, data)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	brand, err := a.brands.Update(profile.ID, id, service.BrandPatch{LogoURL: &url})
	if err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondError(c, http.StatusNotFound, "brand not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "logo stored but the brand update failed, please retry")
		return
	}

	c.JSON(http.StatusOK, brand)
}

// DeleteBrand 删除品牌
func (a *API) DeleteBrand(c *gin.Context) {
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

	if err := a.brands.Delete(profile.ID, id); err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondError(c, http.StatusNotFound, "brand not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "deleting the brand failed, please retry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
