package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/HaraFumitaka/twitter-app/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c, err := New(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	return c, ts
}

func TestDetailSurfacedVerbatim(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "このメールアドレスは既に登録されています"})
	}))
	_, err := c.Register(context.Background(), RegisterRequest{UserID: "a", Email: "a@example.com"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "このメールアドレスは既に登録されています" {
		t.Fatalf("expected verbatim detail, got %q", err.Error())
	}
}

func TestMissingDetailGetsGenericMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	err := c.Logout(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "server error: 500" {
		t.Fatalf("expected generic message, got %q", err.Error())
	}
}

func TestUnauthorizedFiresHook(t *testing.T) {
	var fired atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "認証されていません"})
	}))
	c.OnUnauthorized(func() { fired.Add(1) })
	_, err := c.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if fired.Load() != 1 {
		t.Fatalf("expected hook fired once, got %d", fired.Load())
	}
}

func TestRequestCarriesIDAndAcceptHeaders(t *testing.T) {
	var gotID, gotAccept string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode(model.User{UserID: "alice"})
	}))
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept header, got %q", gotAccept)
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "tok-1", Path: "/"})
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		case "/api/auth/me":
			ck, err := r.Cookie("session_id")
			if err != nil || ck.Value != "tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(model.User{UserID: "alice"})
		}
	}))
	ctx := context.Background()
	if err := c.Login(ctx, "a@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	u, err := c.Me(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u.UserID != "alice" {
		t.Fatalf("expected alice, got %+v", u)
	}
	found := false
	for _, ck := range c.SessionCookies() {
		if ck.Name == "session_id" && ck.Value == "tok-1" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected session cookie exposed for persistence")
	}
}

func TestRestoreSessionCookies(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("session_id")
		if err != nil || ck.Value != "tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(model.User{UserID: "bob"})
	}))
	c.RestoreSessionCookies([]*http.Cookie{{Name: "session_id", Value: "tok-2"}})
	u, err := c.Me(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if u.UserID != "bob" {
		t.Fatalf("expected bob, got %+v", u)
	}
}

func TestTweetsQueryAndEnvelope(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tweets/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("page_size") != "10" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(model.TweetPage{
			Tweets: []model.Tweet{{TweetID: 1, Content: "hi", LikeCount: 3}},
			Total:  11, Page: 2, PageSize: 10,
		})
	}))
	p, err := c.Tweets(context.Background(), 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if p.Total != 11 || len(p.Tweets) != 1 || p.Tweets[0].LikeCount != 3 {
		t.Fatalf("unexpected page %+v", p)
	}
}

func TestRepliesParentFilter(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(model.ReplyPage{Page: 1, PageSize: 20})
	}))
	parent := int64(7)
	if _, err := c.Replies(context.Background(), 3, 1, 20, &parent); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "page=1&page_size=20&parent_reply_id=7" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestReactPathsPerKind(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	ctx := context.Background()
	for _, kind := range model.Kinds() {
		if err := c.React(ctx, 9, kind); err != nil {
			t.Fatal(err)
		}
		if err := c.Unreact(ctx, 9, kind); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{
		"POST /api/tweets/9/like", "DELETE /api/tweets/9/like",
		"POST /api/tweets/9/retweet", "DELETE /api/tweets/9/retweet",
		"POST /api/tweets/9/bookmark", "DELETE /api/tweets/9/bookmark",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("request %d: expected %q, got %q", i, want[i], paths[i])
		}
	}
}

func TestUnknownReactionKindRejectedLocally(t *testing.T) {
	hits := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	if err := c.React(context.Background(), 1, model.ReactionKind("star")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if hits != 0 {
		t.Fatal("expected no request issued")
	}
}
