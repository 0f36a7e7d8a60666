package thread

import (
	"context"
	"fmt"

	"github.com/HaraFumitaka/twitter-app/internal/feed"
	"github.com/HaraFumitaka/twitter-app/internal/logging"
	"github.com/HaraFumitaka/twitter-app/internal/model"
	"github.com/HaraFumitaka/twitter-app/internal/util"
)

// API is the reply slice of the boundary plus the single-tweet fetch the
// detail view needs.
type API interface {
	Tweet(ctx context.Context, tweetID int64) (model.Tweet, error)
	Replies(ctx context.Context, tweetID int64, page, pageSize int, parentReplyID *int64) (model.ReplyPage, error)
	CreateReply(ctx context.Context, tweetID int64, content string, parentReplyID *int64) (model.Reply, error)
	DeleteReply(ctx context.Context, replyID int64) error
}

// Thread owns one tweet's reply list and keeps the owning tweet's reply
// counter in lockstep with reply creation and deletion. Unlike reaction
// toggles, reply create/delete waits for server confirmation before any
// local state moves.
//
// The parent collection is wherever the owning tweet may be loaded: the
// home timeline or a detail view's own one-tweet collection. A missing
// parent is tolerated and the counter update is skipped.
type Thread struct {
	api     API
	tweetID int64
	parent  *feed.Collection[model.Tweet]
	replies *feed.Collection[model.Reply]
}

// New builds a thread for tweetID whose counter updates land in parent.
func New(api API, tweetID int64, parent *feed.Collection[model.Tweet]) *Thread {
	return &Thread{
		api:     api,
		tweetID: tweetID,
		parent:  parent,
		replies: feed.NewCollection[model.Reply](),
	}
}

// Replies exposes the reply collection for rendering.
func (t *Thread) Replies() *feed.Collection[model.Reply] { return t.replies }

// TweetID returns the owning tweet's id.
func (t *Thread) TweetID() int64 { return t.tweetID }

// LoadParent fetches the owning tweet into the parent store so counter
// updates have somewhere to land.
func (t *Thread) LoadParent(ctx context.Context) (model.Tweet, error) {
	tw, err := t.api.Tweet(ctx, t.tweetID)
	if err != nil {
		return model.Tweet{}, err
	}
	if !t.parent.Mutate(tw.TweetID, func(cur *model.Tweet) { *cur = tw }) && t.parent.Len() == 0 {
		t.parent.Replace([]model.Tweet{tw}, 1, 1, 1)
	}
	return tw, nil
}

// LoadPage fetches one 1-indexed page of replies, optionally filtered to
// the children of parentReplyID, and replaces the list contents. On
// failure the previous contents are left untouched.
func (t *Thread) LoadPage(ctx context.Context, page, pageSize int, parentReplyID *int64) error {
	if page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return fmt.Errorf("page size must be >= 1, got %d", pageSize)
	}
	p, err := t.api.Replies(ctx, t.tweetID, page, pageSize, parentReplyID)
	if err != nil {
		return err
	}
	t.replies.Replace(p.Replies, p.Page, p.PageSize, p.Total)
	return nil
}

// Post creates a reply. Only after the server confirms it does the reply
// join the list and the owning tweet's counter move up by one.
func (t *Thread) Post(ctx context.Context, content string, parentReplyID *int64) (model.Reply, error) {
	content = util.NormalizeWhitespace(content)
	r, err := t.api.CreateReply(ctx, t.tweetID, content, parentReplyID)
	if err != nil {
		return model.Reply{}, err
	}
	t.replies.Prepend(r)
	if !t.parent.Mutate(t.tweetID, func(tw *model.Tweet) { tw.AdjustReplyCount(1) }) {
		// parent not loaded anywhere; the counter catches up on the
		// next tweet fetch
		logging.Debug("reply_count_skip", map[string]any{"tweet_id": t.tweetID})
	}
	return r, nil
}

// Delete removes a reply after server confirmation and moves the owning
// tweet's counter down by one, floored at zero.
func (t *Thread) Delete(ctx context.Context, replyID int64) error {
	if err := t.api.DeleteReply(ctx, replyID); err != nil {
		return err
	}
	if t.replies.Remove(replyID) {
		t.parent.Mutate(t.tweetID, func(tw *model.Tweet) { tw.AdjustReplyCount(-1) })
	}
	return nil
}
