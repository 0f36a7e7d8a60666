package react

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/HaraFumitaka/twitter-app/internal/metrics"
	"github.com/HaraFumitaka/twitter-app/internal/model"
)

// ErrToggleInFlight rejects a toggle while the previous one on the same
// (tweet, kind) pair is still awaiting its server response.
var ErrToggleInFlight = errors.New("reaction toggle already in flight")

// ErrNotLoaded means the target tweet is not in the observed collection.
var ErrNotLoaded = errors.New("tweet not loaded")

// API issues the confirming reaction requests.
type API interface {
	React(ctx context.Context, tweetID int64, kind model.ReactionKind) error
	Unreact(ctx context.Context, tweetID int64, kind model.ReactionKind) error
}

// Store is the observed tweet collection the toggler mutates.
type Store interface {
	Mutate(id int64, fn func(*model.Tweet)) bool
}

type toggleKey struct {
	tweetID int64
	kind    model.ReactionKind
}

// Toggler flips one viewer reaction at a time per (tweet, kind) pair:
// optimistic local flip, confirming request, exact rollback on failure.
// Independent pairs never block each other.
type Toggler struct {
	api   API
	store Store

	mu      sync.Mutex
	pending map[toggleKey]struct{}
}

func NewToggler(api API, store Store) *Toggler {
	return &Toggler{api: api, store: store, pending: make(map[toggleKey]struct{})}
}

// Toggle flips the reaction of the given kind on the given tweet. The flag
// and counter move together immediately; if the server then rejects the
// request, exactly that flip is reverted and the error is returned.
func (t *Toggler) Toggle(ctx context.Context, tweetID int64, kind model.ReactionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown reaction kind %q", kind)
	}
	key := toggleKey{tweetID: tweetID, kind: kind}

	t.mu.Lock()
	if _, busy := t.pending[key]; busy {
		t.mu.Unlock()
		return ErrToggleInFlight
	}

	var wasActive bool
	found := t.store.Mutate(tweetID, func(tw *model.Tweet) {
		wasActive, _ = tw.ReactionState(kind)
		tw.SetReaction(kind, !wasActive)
	})
	if !found {
		t.mu.Unlock()
		return ErrNotLoaded
	}
	t.pending[key] = struct{}{}
	t.mu.Unlock()
	metrics.IncToggle(string(kind))

	var err error
	if wasActive {
		err = t.api.Unreact(ctx, tweetID, kind)
	} else {
		err = t.api.React(ctx, tweetID, kind)
	}

	t.mu.Lock()
	delete(t.pending, key)
	if err != nil {
		// revert exactly the optimistic flip
		t.store.Mutate(tweetID, func(tw *model.Tweet) {
			tw.SetReaction(kind, wasActive)
		})
	}
	t.mu.Unlock()
	if err != nil {
		metrics.IncToggleRollback(string(kind))
		return err
	}
	return nil
}
