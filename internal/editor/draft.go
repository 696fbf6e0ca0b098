// Package editor holds the in-memory draft workflow for the admin post
// editor: one record is cloned into a local draft, field patches merge into
// it without touching the stored row, and an explicit save is the only
// operation that reaches the database.
package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/linkbio/internal/db"
	"github.com/linkbio/internal/slug"
)

var (
	// ErrNotEditing 在没有打开草稿时对草稿操作返回
	ErrNotEditing = errors.New("no draft is open")
	// ErrSaveInFlight 在上一次保存尚未完成时再次保存返回
	ErrSaveInFlight = errors.New("a save is already in flight")
)

// State describes where the editor currently is in its workflow.
type State int

const (
	// Viewing 列表态，没有打开的草稿
	Viewing State = iota
	// Editing 草稿已打开，可合并补丁
	Editing
	// Saving 草稿正在保存，編辑操作被拒绝
	Saving
)

// Patch carries the fields a single edit wants to change. Nil pointers stay
// untouched, so merging changes exactly the keys present in the patch.
type Patch struct {
	Title     *string
	Slug      *string
	Excerpt   *string
	ContentMD *string
	CoverURL  *string
}

// Session is the draft state machine for one admin session. All methods are
// safe for concurrent use; the save token discards late responses that
// resolve after the draft they belonged to was closed or replaced.
type Session struct {
	mu        sync.Mutex
	state     State
	draft     db.Post
	saveToken uint64
	lastError string
}

// NewSession returns a session in the Viewing state.
func NewSession() *Session {
	return &Session{}
}

// State reports the current workflow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the message of the most recent failed save, cleared on
// the next successful save or open.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Open clones the given record into a fresh draft and enters Editing.
// Opening while a save is in flight abandons that save: its response will be
// discarded when it arrives.
func (s *Session) Open(post db.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveToken++
	s.state = Editing
	s.draft = post
	s.lastError = ""
}

// Draft returns a copy of the open draft, if any.
func (s *Session) Draft() (db.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Viewing {
		return db.Post{}, false
	}
	return s.draft, true
}

// Merge applies a partial patch to the open draft. It never touches the
// network and never blocks on it.
func (s *Session) Merge(patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}

	if patch.Title != nil {
		s.draft.Title = *patch.Title
	}
	if patch.Slug != nil {
		s.draft.Slug = *patch.Slug
	}
	if patch.Excerpt != nil {
		s.draft.Excerpt = *patch.Excerpt
	}
	if patch.ContentMD != nil {
		s.draft.ContentMD = *patch.ContentMD
	}
	if patch.CoverURL != nil {
		s.draft.CoverURL = *patch.CoverURL
	}
	return nil
}

// TogglePublish flips the publish timestamp: nil becomes now, non-nil
// becomes nil. Nothing is scheduled and nothing else changes.
func (s *Session) TogglePublish(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}

	if s.draft.PublishedAt == nil {
		ts := now
		s.draft.PublishedAt = &ts
	} else {
		s.draft.PublishedAt = nil
	}
	return nil
}

// RegenerateSlug recomputes the slug from the current draft title. This is
// the only place the slug follows the title; editing the title alone never
// rewrites a slug that may already be shared externally.
func (s *Session) RegenerateSlug() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}

	s.draft.Slug = slug.Make(s.draft.Title)
	return nil
}

// BeginSave snapshots the draft for persistence and enters Saving. The
// returned token must be handed back to CompleteSave or FailSave; only the
// holder of the current token may resolve the save.
func (s *Session) BeginSave() (db.Post, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Viewing:
		return db.Post{}, 0, ErrNotEditing
	case Saving:
		return db.Post{}, 0, ErrSaveInFlight
	}

	s.state = Saving
	return s.draft, s.saveToken, nil
}

// CompleteSave adopts the server-returned canonical row and returns to
// Editing. A stale token (draft closed or replaced meanwhile) is discarded
// and the method reports false.
func (s *Session) CompleteSave(token uint64, canonical db.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.saveToken || s.state != Saving {
		return false
	}

	s.state = Editing
	s.draft = canonical
	s.lastError = ""
	return true
}

// FailSave surfaces a save failure: the draft is retained untouched so no
// unsaved edits are lost, and the session returns to Editing.
func (s *Session) FailSave(token uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.saveToken || s.state != Saving {
		return false
	}

	s.state = Editing
	s.lastError = message
	return true
}

// Close drops the draft and returns to Viewing. An in-flight save keeps
// running but its response will be discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveToken++
	s.state = Viewing
	s.draft = db.Post{}
	s.lastError = ""
}

// RecordDeleted closes the session if the deleted record is the open draft.
// It reports whether the session transitioned back to Viewing.
func (s *Session) RecordDeleted(postID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Viewing || s.draft.ID != postID {
		return false
	}

	s.saveToken++
	s.state = Viewing
	s.draft = db.Post{}
	s.lastError = ""
	return true
}

func (s *Session) editableLocked() error {
	switch s.state {
	case Viewing:
		return ErrNotEditing
	case Saving:
		return ErrSaveInFlight
	}
	return nil
}
