package handler

import (
	"github.com/linkbio/internal/config"
	"github.com/linkbio/internal/editor"
	"github.com/linkbio/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	gate        *service.SessionGate
	profiles    *service.ProfileService
	links       *service.LinkService
	brands      *service.BrandService
	posts       *service.PostService
	contact     *service.ContactService
	media       *service.MediaStore
	editors     *editor.Registry
	auth        *service.AuthNotifier
	authSub     *service.AuthSubscription
	siteHandle  string
	siteBaseURL string
}

// NewAPI constructs a handler set with shared services. The editor registry
// subscribes to auth events so that signing out clears the drafts held for
// that session.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	notifier := service.NewAuthNotifier()
	registry := editor.NewRegistry()

	sub := notifier.Subscribe(func(event service.AuthEvent) {
		if event.Type == service.AuthSignedOut {
			registry.Discard(event.ProfileID)
		}
	})

	return &API{
		db:          gdb,
		gate:        service.NewSessionGate(gdb),
		profiles:    service.NewProfileService(gdb),
		links:       service.NewLinkService(gdb),
		brands:      service.NewBrandService(gdb),
		posts:       service.NewPostService(gdb),
		contact:     service.NewContactService(gdb, cfg.SiteHandle),
		media:       service.NewMediaStore(cfg.UploadDir, cfg.UploadURLPath),
		editors:     registry,
		auth:        notifier,
		authSub:     sub,
		siteHandle:  cfg.SiteHandle,
		siteBaseURL: cfg.SiteBaseURL,
	}
}

// Close cancels the auth subscription; call it when tearing the API down.
func (a *API) Close() {
	a.authSub.Cancel()
}
