package model

// ReactionKind names one of the viewer reactions a tweet supports.
// Its string value doubles as the API path segment.
type ReactionKind string

const (
	ReactionLike     ReactionKind = "like"
	ReactionRetweet  ReactionKind = "retweet"
	ReactionBookmark ReactionKind = "bookmark"
)

// Kinds lists all reaction kinds in display order.
func Kinds() []ReactionKind {
	return []ReactionKind{ReactionLike, ReactionRetweet, ReactionBookmark}
}

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionRetweet, ReactionBookmark:
		return true
	}
	return false
}

// ReactionState returns the viewer flag and counter for kind k.
func (t *Tweet) ReactionState(k ReactionKind) (active bool, count int) {
	switch k {
	case ReactionLike:
		return t.IsLiked, t.LikeCount
	case ReactionRetweet:
		return t.IsRetweeted, t.RetweetCount
	case ReactionBookmark:
		return t.IsBookmarked, t.BookmarkCount
	}
	return false, 0
}

// SetReaction sets the viewer flag for kind k and moves its counter in the
// same step: +1 when activating, -1 when deactivating. Counters never go
// below zero.
func (t *Tweet) SetReaction(k ReactionKind, active bool) {
	delta := -1
	if active {
		delta = 1
	}
	switch k {
	case ReactionLike:
		t.IsLiked = active
		t.LikeCount = floorZero(t.LikeCount + delta)
	case ReactionRetweet:
		t.IsRetweeted = active
		t.RetweetCount = floorZero(t.RetweetCount + delta)
	case ReactionBookmark:
		t.IsBookmarked = active
		t.BookmarkCount = floorZero(t.BookmarkCount + delta)
	}
}

// AdjustReplyCount moves the reply counter by delta, floored at zero.
func (t *Tweet) AdjustReplyCount(delta int) {
	t.ReplyCount = floorZero(t.ReplyCount + delta)
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
