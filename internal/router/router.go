package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/config"
	"github.com/linkbio/internal/handler"
	"github.com/linkbio/internal/service"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("linkbio_session", store))

	// 上传文件的静态服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// 公开路由，无需登录
	public := r.Group("/api")
	{
		public.GET("/page", api.GetProfilePage)
		public.POST("/page/like", api.LikeProfile)
		public.GET("/blog", api.ListBlogPosts)
		public.GET("/blog/:slug", api.GetBlogPost)
		public.POST("/contact", api.SubmitContact)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)
		admin.GET("/session", api.SessionInfo)

		// 需要管理员身份的后台路由
		auth := admin.Group("/api")
		auth.Use(api.RequireAdmin())
		{
			auth.GET("/profile", api.GetAdminProfile)
			auth.PUT("/profile", api.UpdateProfile)
			auth.POST("/profile/avatar", api.UploadProfileImage(service.PurposeAvatar))
			auth.POST("/profile/cover", api.UploadProfileImage(service.PurposeCover))

			auth.GET("/links", api.GetLinks)
			auth.POST("/links", api.CreateLink)
			auth.PUT("/links/:id", api.UpdateLink)
			auth.DELETE("/links/:id", api.DeleteLink)
			auth.GET("/links/icons", api.GetSocialIconOptions)

			auth.GET("/brands", api.GetBrands)
			auth.POST("/brands", api.CreateBrand)
			auth.PUT("/brands/:id", api.UpdateBrand)
			auth.POST("/brands/:id/logo", api.UploadBrandLogo)
			auth.DELETE("/brands/:id", api.DeleteBrand)

			auth.GET("/posts", api.GetPosts)
			auth.POST("/posts", api.CreatePost)
			auth.POST("/posts/:id/open", api.OpenPost)
			auth.DELETE("/posts/:id", api.DeletePost)

			auth.GET("/draft", api.GetDraft)
			auth.PATCH("/draft", api.PatchDraft)
			auth.POST("/draft/publish", api.TogglePublishDraft)
			auth.POST("/draft/slug", api.RegenerateDraftSlug)
			auth.POST("/draft/save", api.SaveDraft)
			auth.POST("/draft/close", api.CloseDraft)

			auth.POST("/upload", api.UploadMedia)
		}
	}

	return r
}
