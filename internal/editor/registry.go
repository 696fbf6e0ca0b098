package editor

import "sync"

// Registry 按管理员资料 ID 维护各自的编辑会话。
// 登出时必须调用 Discard，防止上一个会话的草稿泄漏给后续会话。
type Registry struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uint]*Session)}
}

// ForProfile returns the session for the given admin profile, creating it on
// first use.
func (r *Registry) ForProfile(profileID uint) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[profileID]
	if !ok {
		session = NewSession()
		r.sessions[profileID] = session
	}
	return session
}

// Discard drops all editor state held for a profile.
func (r *Registry) Discard(profileID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[profileID]; ok {
		session.Close()
		delete(r.sessions, profileID)
	}
}

// RecordDeleted notifies every session that a post was removed so that an
// open draft referencing it closes exactly once.
func (r *Registry) RecordDeleted(postID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		session.RecordDeleted(postID)
	}
}
