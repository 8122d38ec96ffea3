package realtime

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// PresenceChange describes one registry mutation.
type PresenceChange struct {
	Identity string
	Joined   bool
}

// Announcer is told about every registry mutation, in mutation order.
type Announcer interface {
	Announce(change PresenceChange, identities []string)
}

// Registry binds authenticated sessions to identities. The same identity may
// be bound to several sessions at once; it stays present until its last
// session is unregistered.
type Registry struct {
	mu        sync.Mutex
	bindings  map[*Session]string
	counts    map[string]int
	announcer Announcer
}

// NewRegistry creates an empty Registry. A nil announcer is allowed.
func NewRegistry(announcer Announcer) *Registry {
	return &Registry{
		bindings:  make(map[*Session]string),
		counts:    make(map[string]int),
		announcer: announcer,
	}
}

// Register binds s to identity and announces the join.
func (r *Registry) Register(s *Session, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bindings[s]; ok {
		return ErrAlreadyAuthenticated
	}
	r.bindings[s] = identity
	r.counts[identity]++
	s.setIdentity(identity)

	r.announce(PresenceChange{Identity: identity, Joined: true})
	return nil
}

// Unregister removes the binding of s, if any, and announces the departure.
// It reports the identity that was bound.
func (r *Registry) Unregister(s *Session) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.bindings[s]
	if !ok {
		return "", false
	}
	delete(r.bindings, s)
	if r.counts[identity] <= 1 {
		delete(r.counts, identity)
	} else {
		r.counts[identity]--
	}
	s.setIdentity("")

	r.announce(PresenceChange{Identity: identity, Joined: false})
	return identity, true
}

// ListIdentities returns the distinct bound identities in sorted order.
func (r *Registry) ListIdentities() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identities()
}

// Bound reports whether s is registered.
func (r *Registry) Bound(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bindings[s]
	return ok
}

func (r *Registry) identities() []string {
	ids := lo.Keys(r.counts)
	slices.Sort(ids)
	return ids
}

// announce runs under r.mu so snapshots go out in mutation order.
func (r *Registry) announce(change PresenceChange) {
	if r.announcer == nil {
		return
	}
	r.announcer.Announce(change, r.identities())
}
