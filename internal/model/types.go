package model

import "time"

// User is the authenticated account as returned by /api/auth/me.
type User struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Email       string    `json:"e_mail"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// Tweet is a timeline entry with its reaction counters and the
// viewer-scoped reaction flags.
type Tweet struct {
	TweetID       int64     `json:"tweet_id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	Content       string    `json:"tweet_content"`
	CreatedAt     time.Time `json:"created_at"`
	LikeCount     int       `json:"like_count"`
	RetweetCount  int       `json:"retweet_count"`
	ReplyCount    int       `json:"reply_count"`
	BookmarkCount int       `json:"bookmark_count"`
	IsLiked       bool      `json:"is_liked"`
	IsRetweeted   bool      `json:"is_retweeted"`
	IsBookmarked  bool      `json:"is_bookmarked"`
}

// Reply belongs to one tweet and optionally to a parent reply.
type Reply struct {
	ReplyID         int64     `json:"reply_id"`
	TweetID         int64     `json:"tweet_id"`
	ParentReplyID   *int64    `json:"parent_reply_id,omitempty"`
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	Content         string    `json:"reply_content"`
	ChildReplyCount int       `json:"child_reply_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// TweetPage is the server's paginated tweet list envelope.
type TweetPage struct {
	Tweets   []Tweet `json:"tweets"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// ReplyPage is the server's paginated reply list envelope.
type ReplyPage struct {
	Replies  []Reply `json:"replies"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// EntityID implements feed.Entity.
func (t Tweet) EntityID() int64 { return t.TweetID }

// EntityID implements feed.Entity.
func (r Reply) EntityID() int64 { return r.ReplyID }
