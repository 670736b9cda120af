package web

import (
	"net/http"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/internal/planner"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionCookie carries the id of the browser's planner form.
const SessionCookie = "planner_session"

// Sessions keeps one planner.Controller per browser session. Entries expire after
// ttl without access.
type Sessions struct {
	store         *cache.Cache
	ttl           time.Duration
	newController func() *planner.Controller
}

func NewSessions(ttl time.Duration, newController func() *planner.Controller) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		store:         cache.New(ttl, ttl/2),
		ttl:           ttl,
		newController: newController,
	}
}

// Lookup returns the controller for the request's session without creating one.
func (s *Sessions) Lookup(r *http.Request) (*planner.Controller, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	v, ok := s.store.Get(cookie.Value)
	if !ok {
		return nil, false
	}
	c := v.(*planner.Controller)
	s.store.Set(cookie.Value, c, cache.DefaultExpiration)
	return c, true
}

// Get returns the session's controller, starting a new session when the cookie is
// missing, unknown or expired.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) *planner.Controller {
	if c, ok := s.Lookup(r); ok {
		return c
	}

	id := uuid.NewString()
	c := s.newController()
	if err := s.store.Add(id, c, cache.DefaultExpiration); err != nil {
		// uuid collision; take whatever is stored.
		if v, ok := s.store.Get(id); ok {
			c = v.(*planner.Controller)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	return s.store.ItemCount()
}
