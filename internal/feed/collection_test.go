package feed

import (
	"testing"

	"github.com/HaraFumitaka/twitter-app/internal/model"
)

func tweet(id int64) model.Tweet { return model.Tweet{TweetID: id, Content: "t"} }

func TestReplaceSwapsContents(t *testing.T) {
	c := NewCollection[model.Tweet]()
	c.Replace([]model.Tweet{tweet(1), tweet(2)}, 1, 20, 42)
	if c.Len() != 2 || c.Total() != 42 || c.Page() != 1 || c.PageSize() != 20 {
		t.Fatalf("unexpected state: len=%d total=%d page=%d size=%d", c.Len(), c.Total(), c.Page(), c.PageSize())
	}
	// loading the same page again must not double the contents
	c.Replace([]model.Tweet{tweet(1), tweet(2)}, 1, 20, 42)
	if c.Len() != 2 {
		t.Fatalf("expected 2 items after reload, got %d", c.Len())
	}
}

func TestPrependGoesToFront(t *testing.T) {
	c := NewCollection[model.Tweet]()
	c.Replace([]model.Tweet{tweet(1)}, 1, 20, 1)
	c.Prepend(tweet(2))
	items := c.Items()
	if items[0].TweetID != 2 {
		t.Fatalf("expected new item at position 0, got %d", items[0].TweetID)
	}
	if c.Total() != 2 {
		t.Fatalf("expected total 2, got %d", c.Total())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := NewCollection[model.Tweet]()
	c.Replace([]model.Tweet{tweet(1), tweet(2)}, 1, 20, 2)
	if !c.Remove(1) {
		t.Fatal("expected first remove to report true")
	}
	if c.Remove(1) {
		t.Fatal("expected second remove to be a no-op")
	}
	if c.Len() != 1 || c.Total() != 1 {
		t.Fatalf("expected len=1 total=1, got len=%d total=%d", c.Len(), c.Total())
	}
}

func TestRemoveNeverDrivesTotalNegative(t *testing.T) {
	c := NewCollection[model.Tweet]()
	c.Replace([]model.Tweet{tweet(1)}, 1, 20, 0)
	c.Remove(1)
	if c.Total() != 0 {
		t.Fatalf("expected total floored at 0, got %d", c.Total())
	}
}

func TestMutateEditsInPlace(t *testing.T) {
	c := NewCollection[model.Tweet]()
	c.Replace([]model.Tweet{tweet(7)}, 1, 20, 1)
	ok := c.Mutate(7, func(tw *model.Tweet) { tw.LikeCount = 9 })
	if !ok {
		t.Fatal("expected mutate to find the tweet")
	}
	got, _ := c.Get(7)
	if got.LikeCount != 9 {
		t.Fatalf("expected like count 9, got %d", got.LikeCount)
	}
	if c.Mutate(8, func(tw *model.Tweet) {}) {
		t.Fatal("expected mutate on unknown id to report false")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c := NewCollection[model.Tweet]()
	c.Replace([]model.Tweet{tweet(1)}, 1, 20, 1)
	items := c.Items()
	items[0].LikeCount = 100
	got, _ := c.Get(1)
	if got.LikeCount != 0 {
		t.Fatal("mutating the returned slice must not touch the collection")
	}
}
