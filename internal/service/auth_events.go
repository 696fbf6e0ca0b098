package service

import "sync"

// AuthEventType 区分登录与登出事件。
type AuthEventType int

const (
	// AuthSignedIn 会话建立
	AuthSignedIn AuthEventType = iota
	// AuthSignedOut 会话终止
	AuthSignedOut
)

// AuthEvent describes one session transition for a profile.
type AuthEvent struct {
	Type      AuthEventType
	ProfileID uint
}

// AuthNotifier fans auth-state transitions out to subscribers. Handlers
// publish on sign-in and sign-out; consumers such as the editor registry
// react without polling the session store.
type AuthNotifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(AuthEvent)
}

// NewAuthNotifier 构造 AuthNotifier
func NewAuthNotifier() *AuthNotifier {
	return &AuthNotifier{subs: make(map[int]func(AuthEvent))}
}

// AuthSubscription is the cancellable handle returned by Subscribe.
type AuthSubscription struct {
	once   sync.Once
	cancel func()
}

// Cancel removes the subscription. Safe to call more than once.
func (s *AuthSubscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers a callback for future auth events and returns a handle
// that must be cancelled when the consumer is torn down.
func (n *AuthNotifier) Subscribe(fn func(AuthEvent)) *AuthSubscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn

	return &AuthSubscription{cancel: func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}}
}

// Notify delivers the event to every active subscriber in the caller's
// goroutine.
func (n *AuthNotifier) Notify(event AuthEvent) {
	n.mu.Lock()
	callbacks := make([]func(AuthEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		callbacks = append(callbacks, fn)
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn(event)
	}
}
