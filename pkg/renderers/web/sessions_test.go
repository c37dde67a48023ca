package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-comboform/pkg/session"
)

func TestSessionStoreEvictsOldest(t *testing.T) {
	now := time.Unix(0, 0)
	store := newSessionStore(func() (*session.Session, error) { return session.New() }, nil, "sid", 2)
	store.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	var first string
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e, err := store.resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if i == 0 {
			first = e.id
		}
	}
	if got := store.len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: first})
	e, err := store.resolve(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if e.id == first {
		t.Fatalf("expected evicted session to be replaced")
	}
}

func TestSessionStoreReusesCookie(t *testing.T) {
	store := newSessionStore(func() (*session.Session, error) { return session.New() }, nil, "sid", 0)

	rec := httptest.NewRecorder()
	e, err := store.resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != e.id || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again, err := store.resolve(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if again != e {
		t.Fatalf("expected same entry")
	}
}

func TestEntryFlashIsConsumed(t *testing.T) {
	e := &entry{}
	e.addFlash("one")
	e.addFlash("two")
	if got := e.takeFlash(); len(got) != 2 {
		t.Fatalf("expected two messages, got %v", got)
	}
	if got := e.takeFlash(); got != nil {
		t.Fatalf("expected empty flash, got %v", got)
	}
}

func TestSessionStoreWithoutSessionFails(t *testing.T) {
	store := newSessionStore(nil, nil, "sid", 0)
	if _, err := store.resolve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); err == nil {
		t.Fatalf("expected error without a session or factory")
	}
}

func TestSessionStorePeekDoesNotStore(t *testing.T) {
	store := newSessionStore(func() (*session.Session, error) { return session.New() }, nil, "sid", 1)

	rec := httptest.NewRecorder()
	live, err := store.resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for i := 0; i < 3; i++ {
		e, err := store.peek(httptest.NewRequest(http.MethodGet, "/api/options", nil))
		if err != nil {
			t.Fatalf("peek: %v", err)
		}
		if e == live || e.session == nil {
			t.Fatalf("expected an unstored entry")
		}
	}
	if got := store.len(); got != 1 {
		t.Fatalf("expected 1 stored entry, got %d", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	e, err := store.peek(req)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if e != live {
		t.Fatalf("expected peek to return the live entry")
	}
}
