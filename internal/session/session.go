package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/HaraFumitaka/twitter-app/internal/apiclient"
	"github.com/HaraFumitaka/twitter-app/internal/logging"
	"github.com/HaraFumitaka/twitter-app/internal/model"
)

// ErrRegisteredLoginFailed means registration succeeded but the follow-up
// login did not; the caller should send the user to the login surface
// instead of treating the whole signup as failed.
var ErrRegisteredLoginFailed = errors.New("registered, but automatic login failed")

// API is the auth slice of the boundary the store needs.
type API interface {
	Register(ctx context.Context, req apiclient.RegisterRequest) (model.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (model.User, error)
}

// Store owns the current authenticated identity. Consumers read it via
// Current or observe changes via Subscribe; only the operations below
// mutate it.
type Store struct {
	api API

	mu        sync.Mutex
	current   *model.User
	subs      map[int]chan *model.User
	nextSub   int
	redirects chan struct{}
}

func New(api API) *Store {
	return &Store{
		api:       api,
		subs:      make(map[int]chan *model.User),
		redirects: make(chan struct{}, 1),
	}
}

// Current returns the live session identity, or nil when unauthenticated.
func (s *Store) Current() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe returns a channel receiving every session emission (nil means
// absence) and a cancel func. The channel holds only the latest value:
// a slow consumer sees the newest state, not the full history.
func (s *Store) Subscribe() (<-chan *model.User, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan *model.User, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Redirects delivers one signal per forced transition to "unauthenticated";
// the page layer reacts by navigating to the login surface.
func (s *Store) Redirects() <-chan struct{} { return s.redirects }

// set stores the new session value and emits it to all subscribers.
// Caller must hold s.mu.
func (s *Store) set(u *model.User) {
	s.current = u
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
			// replace the stale value so the subscriber always
			// drains the latest state
			select {
			case <-ch:
			default:
			}
			ch <- u
		}
	}
}

// Probe queries the boundary for the current identity. Success sets and
// emits the session; any failure (401 included) sets and emits absence.
func (s *Store) Probe(ctx context.Context) error {
	u, err := s.api.Me(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.set(nil)
		return err
	}
	s.set(&u)
	return nil
}

// Login authenticates and, on success, probes for the full user record.
// On failure the previous session value is left unchanged.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := s.api.Login(ctx, email, password); err != nil {
		return err
	}
	return s.Probe(ctx)
}

// Logout clears the session on success. On failure the stale-but-valid
// session is preserved rather than guessed.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(nil)
	return nil
}

// Register creates the account and then logs in with the same credentials.
// A login failure after successful registration is surfaced as
// ErrRegisteredLoginFailed so the caller does not mask it.
func (s *Store) Register(ctx context.Context, req apiclient.RegisterRequest) (model.User, error) {
	u, err := s.api.Register(ctx, req)
	if err != nil {
		return model.User{}, err
	}
	if err := s.Login(ctx, req.Email, req.Password); err != nil {
		logging.Warn("register_login_failed", map[string]any{"user_id": u.UserID, "error": err.Error()})
		return u, fmt.Errorf("%w: %v", ErrRegisteredLoginFailed, err)
	}
	return u, nil
}

// Invalidate is the session gate's 401 hook: it forces the session to
// absent and fires exactly one redirect signal per present-to-absent
// transition, no matter how many in-flight calls saw the 401.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.set(nil)
	select {
	case s.redirects <- struct{}{}:
	default:
	}
}
