package feed

import (
	"context"
	"fmt"

	"github.com/HaraFumitaka/twitter-app/internal/logging"
	"github.com/HaraFumitaka/twitter-app/internal/model"
	"github.com/HaraFumitaka/twitter-app/internal/util"
)

// API is the tweet slice of the boundary the feed needs.
type API interface {
	Tweets(ctx context.Context, page, pageSize int) (model.TweetPage, error)
	CreateTweet(ctx context.Context, content string) (model.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID int64) error
}

// Feed drives the paginated tweet timeline.
type Feed struct {
	api API
	col *Collection[model.Tweet]
}

func New(api API) *Feed {
	return &Feed{api: api, col: NewCollection[model.Tweet]()}
}

// Collection exposes the timeline contents for rendering. Mutation stays
// with the feed and the reaction toggler.
func (f *Feed) Collection() *Collection[model.Tweet] { return f.col }

// LoadPage fetches one 1-indexed page and replaces the timeline contents.
// On failure the previous contents are left untouched.
func (f *Feed) LoadPage(ctx context.Context, page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return fmt.Errorf("page size must be >= 1, got %d", pageSize)
	}
	p, err := f.api.Tweets(ctx, page, pageSize)
	if err != nil {
		return err
	}
	f.col.Replace(p.Tweets, p.Page, p.PageSize, p.Total)
	logging.Debug("timeline_loaded", map[string]any{"page": p.Page, "count": len(p.Tweets), "total": p.Total})
	return nil
}

// Post creates a tweet and, once the server confirms it, prepends it to
// the timeline.
func (f *Feed) Post(ctx context.Context, content string) (model.Tweet, error) {
	content = util.NormalizeWhitespace(content)
	t, err := f.api.CreateTweet(ctx, content)
	if err != nil {
		return model.Tweet{}, err
	}
	f.col.Prepend(t)
	return t, nil
}

// Delete removes a tweet after server confirmation. Removing a tweet that
// is no longer loaded is a no-op locally.
func (f *Feed) Delete(ctx context.Context, tweetID int64) error {
	if err := f.api.DeleteTweet(ctx, tweetID); err != nil {
		return err
	}
	f.col.Remove(tweetID)
	return nil
}
