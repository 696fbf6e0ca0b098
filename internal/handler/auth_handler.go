package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/db"
	"github.com/linkbio/internal/service"
)

const (
	sessionProfileKey = "profile_id"
	contextProfileKey = "__admin_profile"
)

// Login 处理管理员登录请求
func (a *API) Login(c *gin.Context) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &payload, "email and password are required") {
		return
	}

	profile, err := a.profiles.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "sign-in failed, please retry")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionProfileKey, profile.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "could not persist the session")
		return
	}

	a.auth.Notify(service.AuthEvent{Type: service.AuthSignedIn, ProfileID: profile.ID})

	state, _ := a.gate.Classify(profile.ID)
	c.JSON(http.StatusOK, gin.H{
		"state":   state.String(),
		"profile": adminProfileJSON(profile),
	})
}

// Logout 处理登出，清空会话并丢弃该会话持有的全部本地状态
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	profileID := currentProfileID(session)

	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "could not clear the session")
		return
	}

	if profileID != 0 {
		a.auth.Notify(service.AuthEvent{Type: service.AuthSignedOut, ProfileID: profileID})
	}

	c.JSON(http.StatusOK, gin.H{"state": service.GateAnonymous.String()})
}

// SessionInfo 返回当前会话的授权层级，每次调用都重新查库分类
func (a *API) SessionInfo(c *gin.Context) {
	session := sessions.Default(c)
	state, profile := a.gate.Classify(currentProfileID(session))

	payload := gin.H{"state": state.String()}
	if state == service.GateAdmin && profile != nil {
		payload["profile"] = adminProfileJSON(profile)
	}
	c.JSON(http.StatusOK, payload)
}

// RequireAdmin gates the admin API. Each request re-runs the tri-state
// classification: anonymous and non-admin sessions get distinct messages and
// never see any admin payload, not even transiently.
func (a *API) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		state, profile := a.gate.Classify(currentProfileID(session))

		switch state {
		case service.GateAdmin:
			c.Set(contextProfileKey, profile)
			c.Next()
		case service.GateNonAdmin:
			respondError(c, http.StatusForbidden, "this account has no admin access")
			c.Abort()
		default:
			respondError(c, http.StatusUnauthorized, "sign in to manage this site")
			c.Abort()
		}
	}
}

func currentProfileID(session sessions.Session) uint {
	raw := session.Get(sessionProfileKey)
	if raw == nil {
		return 0
	}
	id, ok := raw.(uint)
	if !ok {
		return 0
	}
	return id
}

func adminProfile(c *gin.Context) *db.Profile {
	value, ok := c.Get(contextProfileKey)
	if !ok {
		return nil
	}
	profile, ok := value.(*db.Profile)
	if !ok {
		return nil
	}
	return profile
}

func adminProfileJSON(profile *db.Profile) gin.H {
	return gin.H{
		"id":              profile.ID,
		"handle":          profile.Handle,
		"display_name":    profile.DisplayName,
		"bio":             profile.Bio,
		"avatar_url":      profile.AvatarURL,
		"cover_url":       profile.CoverURL,
		"community_label": profile.CommunityLabel,
		"community_href":  profile.CommunityHref,
		"likes":           profile.Likes,
	}
}
