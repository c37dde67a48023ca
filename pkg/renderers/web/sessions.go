package web

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-comboform/pkg/session"
)

var errNoSession = errors.New("web: no session or session factory configured")

// SessionFactory builds a fresh Session for a new browser.
type SessionFactory func() (*session.Session, error)

type entry struct {
	mu       sync.Mutex
	id       string
	session  *session.Session
	flash    []string
	lastSeen time.Time
}

func (e *entry) addFlash(msg string) {
	e.flash = append(e.flash, msg)
}

func (e *entry) takeFlash() []string {
	out := e.flash
	e.flash = nil
	return out
}

type sessionStore struct {
	mu         sync.Mutex
	entries    map[string]*entry
	factory    SessionFactory
	shared     *entry
	cookieName string
	maxEntries int
	now        func() time.Time
}

func newSessionStore(factory SessionFactory, shared *session.Session, cookieName string, maxEntries int) *sessionStore {
	store := &sessionStore{
		entries:    make(map[string]*entry),
		factory:    factory,
		cookieName: cookieName,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	if factory == nil && shared != nil {
		store.shared = &entry{id: "shared", session: shared}
	}
	return store
}

// resolve returns the entry for the request cookie, creating one (and
// setting the cookie) when missing or unknown.
func (st *sessionStore) resolve(w http.ResponseWriter, r *http.Request) (*entry, error) {
	if st.shared != nil {
		return st.shared, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if e, ok := st.lookupLocked(r); ok {
		return e, nil
	}
	if st.factory == nil {
		return nil, errNoSession
	}
	s, err := st.factory()
	if err != nil {
		return nil, err
	}
	e := &entry{id: uuid.NewString(), session: s, lastSeen: st.now()}
	st.evictLocked()
	st.entries[e.id] = e

	http.SetCookie(w, &http.Cookie{
		Name:     st.cookieName,
		Value:    e.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e, nil
}

// peek returns the entry for the request cookie. Requests without a known
// cookie get a fresh entry that is never stored, so they cannot evict live
// sessions.
func (st *sessionStore) peek(r *http.Request) (*entry, error) {
	if st.shared != nil {
		return st.shared, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if e, ok := st.lookupLocked(r); ok {
		return e, nil
	}
	if st.factory == nil {
		return nil, errNoSession
	}
	s, err := st.factory()
	if err != nil {
		return nil, err
	}
	return &entry{session: s}, nil
}

func (st *sessionStore) lookupLocked(r *http.Request) (*entry, bool) {
	cookie, err := r.Cookie(st.cookieName)
	if err != nil {
		return nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil, false
	}
	e, ok := st.entries[id.String()]
	if ok {
		e.lastSeen = st.now()
	}
	return e, ok
}

func (st *sessionStore) evictLocked() {
	if st.maxEntries <= 0 || len(st.entries) < st.maxEntries {
		return
	}
	var oldest *entry
	for _, e := range st.entries {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldest = e
		}
	}
	if oldest != nil {
		delete(st.entries, oldest.id)
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
