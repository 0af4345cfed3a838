// Package session tracks the current authentication identity and fans out
// change notifications to the components that cache per-user state.
package session

import (
	"sync"

	"github.com/google/uuid"

	"wishflix/models"
)

// Listener receives the session after an identity change.
type Listener func(models.Session)

type subscriber struct {
	id string
	fn Listener
}

// Provider holds the session snapshot and delivers at most one notification
// per actual identity change, in the order the changes occurred.
//
// The zero snapshot reports ready=false; the first update always flips ready
// to true, even when it carries an empty user (signed out).
type Provider struct {
	// notifyMu serializes updates end to end so listeners observe changes
	// in order. It is acquired before mu and never while holding it.
	notifyMu sync.Mutex

	mu      sync.Mutex
	current models.Session
	subs    []subscriber
}

func NewProvider() *Provider {
	return &Provider{}
}

// Current returns the session snapshot. Before the first update it reports
// ready=false even if a cached identity exists upstream.
func (p *Provider) Current() models.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Subscribe registers a listener for identity changes and returns its
// unsubscribe function. Listeners are invoked on the updater's goroutine and
// must not call SetUser or Clear.
func (p *Provider) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	id := uuid.NewString()

	p.mu.Lock()
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, sub := range p.subs {
			if sub.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

// SetUser records a resolved identity and notifies subscribers if it differs
// from the current one. An empty userID means signed out.
func (p *Provider) SetUser(userID string) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	next := models.Session{UserID: userID, Ready: true}

	p.mu.Lock()
	if p.current == next {
		p.mu.Unlock()
		return
	}
	p.current = next
	listeners := make([]Listener, len(p.subs))
	for i, sub := range p.subs {
		listeners[i] = sub.fn
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Clear marks the session signed out. The session stays ready: readiness
// only ever transitions false to true.
func (p *Provider) Clear() {
	p.SetUser("")
}
