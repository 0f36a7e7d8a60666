package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/HaraFumitaka/twitter-app/internal/model"
)

// API is the full boundary surface of the microblogging service.
type API interface {
	Register(ctx context.Context, req RegisterRequest) (model.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (model.User, error)

	Tweets(ctx context.Context, page, pageSize int) (model.TweetPage, error)
	Tweet(ctx context.Context, tweetID int64) (model.Tweet, error)
	CreateTweet(ctx context.Context, content string) (model.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID int64) error

	React(ctx context.Context, tweetID int64, kind model.ReactionKind) error
	Unreact(ctx context.Context, tweetID int64, kind model.ReactionKind) error

	Replies(ctx context.Context, tweetID int64, page, pageSize int, parentReplyID *int64) (model.ReplyPage, error)
	Reply(ctx context.Context, replyID int64) (model.Reply, error)
	CreateReply(ctx context.Context, tweetID int64, content string, parentReplyID *int64) (model.Reply, error)
	DeleteReply(ctx context.Context, replyID int64) error
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"e_mail"`
	Password    string `json:"password"`
}

// Client talks to the API over HTTP with cookie-session credentials.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	gate       *gate
}

var _ API = (*Client)(nil)

// New builds a client for the given base URL (e.g. "http://localhost:5001").
func New(baseURL string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	g := &gate{next: http.DefaultTransport, limiter: newDefaultLimiter()}
	return &Client{
		base: base,
		gate: g,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Jar:       jar,
			Transport: g,
		},
	}, nil
}

// OnUnauthorized registers the hook fired once per 401 response.
func (c *Client) OnUnauthorized(fn func()) { c.gate.onUnauthorized = fn }

// SessionCookies returns the cookies currently held for the API host, so a
// caller can persist the session between runs.
func (c *Client) SessionCookies() []*http.Cookie { return c.httpClient.Jar.Cookies(c.base) }

// RestoreSessionCookies seeds the jar with previously persisted cookies.
func (c *Client) RestoreSessionCookies(cookies []*http.Cookie) {
	c.httpClient.Jar.SetCookies(c.base, cookies)
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses become StatusError with the server's detail
// string; transport failures keep a generic message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	body := struct {
		Email    string `json:"e_mail"`
		Password string `json:"password"`
	}{Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/api/auth/login", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", struct{}{}, nil)
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

func (c *Client) Tweets(ctx context.Context, page, pageSize int) (model.TweetPage, error) {
	var out model.TweetPage
	path := fmt.Sprintf("/api/tweets/?page=%d&page_size=%d", page, pageSize)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Tweet(ctx context.Context, tweetID int64) (model.Tweet, error) {
	var out model.Tweet
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tweets/%d", tweetID), nil, &out)
	return out, err
}

func (c *Client) CreateTweet(ctx context.Context, content string) (model.Tweet, error) {
	var out model.Tweet
	body := struct {
		Content string `json:"tweet_content"`
	}{Content: content}
	err := c.do(ctx, http.MethodPost, "/api/tweets/", body, &out)
	return out, err
}

func (c *Client) DeleteTweet(ctx context.Context, tweetID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tweets/%d", tweetID), nil, nil)
}

func (c *Client) React(ctx context.Context, tweetID int64, kind model.ReactionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown reaction kind %q", kind)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tweets/%d/%s", tweetID, kind), struct{}{}, nil)
}

func (c *Client) Unreact(ctx context.Context, tweetID int64, kind model.ReactionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown reaction kind %q", kind)
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tweets/%d/%s", tweetID, kind), nil, nil)
}

func (c *Client) Replies(ctx context.Context, tweetID int64, page, pageSize int, parentReplyID *int64) (model.ReplyPage, error) {
	var out model.ReplyPage
	path := fmt.Sprintf("/api/tweets/%d/replies?page=%d&page_size=%d", tweetID, page, pageSize)
	if parentReplyID != nil {
		path += fmt.Sprintf("&parent_reply_id=%d", *parentReplyID)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Reply(ctx context.Context, replyID int64) (model.Reply, error) {
	var out model.Reply
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/replies/%d", replyID), nil, &out)
	return out, err
}

func (c *Client) CreateReply(ctx context.Context, tweetID int64, content string, parentReplyID *int64) (model.Reply, error) {
	var out model.Reply
	body := struct {
		Content       string `json:"reply_content"`
		ParentReplyID *int64 `json:"parent_reply_id,omitempty"`
	}{Content: content, ParentReplyID: parentReplyID}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tweets/%d/replies", tweetID), body, &out)
	return out, err
}

func (c *Client) DeleteReply(ctx context.Context, replyID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/replies/%d", replyID), nil, nil)
}
