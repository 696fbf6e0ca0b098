package service

import (
	"errors"

	"github.com/linkbio/internal/db"
	"gorm.io/gorm"
)

// GateState 描述当前访客的授权层级。
type GateState int

const (
	// GateAnonymous 未登录
	GateAnonymous GateState = iota
	// GateNonAdmin 已登录但资料缺失或未开启管理员标记
	GateNonAdmin
	// GateAdmin 已登录且资料带管理员标记
	GateAdmin
)

// String returns the wire name used in session responses.
func (s GateState) String() string {
	switch s {
	case GateAdmin:
		return "admin"
	case GateNonAdmin:
		return "non_admin"
	default:
		return "anonymous"
	}
}

// SessionGate classifies a session subject against the profiles table on
// every call. The admin flag is never cached across requests: a stale or
// revoked flag must not survive a session change.
type SessionGate struct {
	db *gorm.DB
}

// NewSessionGate 构造 SessionGate
func NewSessionGate(gdb *gorm.DB) *SessionGate {
	return &SessionGate{db: gdb}
}

// Classify resolves the tri-state tier for the given profile id. Zero means
// no session. Any lookup failure degrades to the most restrictive
// authenticated tier, never to admin.
func (g *SessionGate) Classify(profileID uint) (GateState, *db.Profile) {
	if profileID == 0 {
		return GateAnonymous, nil
	}

	var profile db.Profile
	if err := g.db.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GateNonAdmin, nil
		}
		// 网络或存储故障一律按非管理员处理
		return GateNonAdmin, nil
	}

	if !profile.IsAdmin {
		return GateNonAdmin, &profile
	}
	return GateAdmin, &profile
}
