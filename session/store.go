// Package session keeps per-browser dashboard state in memory, keyed by a
// cookie that carries a random session id.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/YuminosukeSato/irisboard/panel"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

// Defaults used when Config fields are zero.
const (
	DefaultCookieName = "irisboard_session"
	DefaultSize       = 10000
	DefaultTTL        = 24 * time.Hour
)

// Config controls the session store.
type Config struct {
	Size       int
	TTL        time.Duration
	CookieName string
	Secure     bool
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	return c
}

// State is the dashboard state of one browser session. Callers hold Lock
// while reading or changing it.
type State struct {
	mu sync.Mutex
	id uuid.UUID

	// Prediction is the last submitted prediction.
	Prediction panel.PredictionState
	// Inputs are the last submitted feature values.
	Inputs panel.FeatureVector
	// Flash is a one-shot message shown on the next page render.
	Flash string
}

func newState(id uuid.UUID) *State {
	return &State{id: id}
}

// ID returns the session id.
func (s *State) ID() uuid.UUID {
	return s.id
}

// Lock serializes requests for the same session.
func (s *State) Lock() {
	s.mu.Lock()
}

// Unlock releases the session.
func (s *State) Unlock() {
	s.mu.Unlock()
}

// PopFlash returns the flash message and clears it. The caller must hold Lock.
func (s *State) PopFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}

// Store maps session ids to State with a bounded size and a sliding expiry.
type Store struct {
	cfg    Config
	states *expirable.LRU[uuid.UUID, *State]
	logger log.Logger
}

// NewStore creates a session store.
func NewStore(cfg Config) *Store {
	cfg = cfg.withDefaults()
	s := &Store{
		cfg:    cfg,
		logger: log.GetLoggerWithName("session"),
	}
	s.states = expirable.NewLRU[uuid.UUID, *State](cfg.Size, func(id uuid.UUID, _ *State) {
		s.logger.Debug("session evicted", log.SessionIDKey, id.String())
	}, cfg.TTL)
	return s
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string {
	return s.cfg.CookieName
}

// Load returns the session named by the request cookie. A missing, malformed,
// unknown or expired cookie starts a new session and sets its cookie on w.
// Every load refreshes the session's expiry and re-issues its cookie so the
// browser's Max-Age follows the server-side TTL.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) *State {
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if st, ok := s.states.Get(id); ok {
				s.states.Add(id, st)
				http.SetCookie(w, s.cookie(id))
				return st
			}
		}
	}

	st := newState(uuid.New())
	s.states.Add(st.id, st)
	http.SetCookie(w, s.cookie(st.id))
	s.logger.Debug("session created", log.SessionIDKey, st.id.String())
	return st
}

// Get returns a live session by id.
func (s *Store) Get(id uuid.UUID) (*State, bool) {
	return s.states.Get(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.states.Len()
}

func (s *Store) cookie(id uuid.UUID) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(s.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
