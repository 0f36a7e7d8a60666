package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/HaraFumitaka/twitter-app/internal/analytics"
	"github.com/HaraFumitaka/twitter-app/internal/apiclient"
	"github.com/HaraFumitaka/twitter-app/internal/cmdlog"
	"github.com/HaraFumitaka/twitter-app/internal/config"
	"github.com/HaraFumitaka/twitter-app/internal/feed"
	"github.com/HaraFumitaka/twitter-app/internal/form"
	"github.com/HaraFumitaka/twitter-app/internal/metrics"
	"github.com/HaraFumitaka/twitter-app/internal/model"
	"github.com/HaraFumitaka/twitter-app/internal/react"
	"github.com/HaraFumitaka/twitter-app/internal/session"
	"github.com/HaraFumitaka/twitter-app/internal/store/clientdb"
	"github.com/HaraFumitaka/twitter-app/internal/theme"
	"github.com/HaraFumitaka/twitter-app/internal/thread"
	"github.com/HaraFumitaka/twitter-app/internal/util"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "register":
		cmdRegister()
	case "login":
		cmdLogin()
	case "logout":
		cmdLogout()
	case "whoami":
		cmdWhoami()
	case "timeline":
		cmdTimeline()
	case "post":
		cmdPost()
	case "delete":
		cmdDelete()
	case "like":
		cmdToggle("like", model.ReactionLike)
	case "retweet":
		cmdToggle("retweet", model.ReactionRetweet)
	case "bookmark":
		cmdToggle("bookmark", model.ReactionBookmark)
	case "replies":
		cmdReplies()
	case "reply":
		cmdReply()
	case "rmreply":
		cmdRmReply()
	case "history":
		cmdHistory()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: twitterapp <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./twitterapp.yaml")
	fmt.Println("  register    Create an account and log in")
	fmt.Println("  login       Log in with email and password")
	fmt.Println("  logout      Log out and drop the stored session")
	fmt.Println("  whoami      Show the current session identity")
	fmt.Println("  timeline    Show a page of the tweet timeline")
	fmt.Println("  post        Post a tweet")
	fmt.Println("  delete      Delete one of your tweets")
	fmt.Println("  like        Toggle like on a tweet")
	fmt.Println("  retweet     Toggle retweet on a tweet")
	fmt.Println("  bookmark    Toggle bookmark on a tweet")
	fmt.Println("  replies     Show a page of replies under a tweet")
	fmt.Println("  reply       Reply to a tweet")
	fmt.Println("  rmreply     Delete one of your replies")
	fmt.Println("  history     Show hourly local action history")
}

// app wires the engine together for one CLI invocation.
type app struct {
	cfg    config.Config
	db     *clientdb.DB
	client *apiclient.Client
	sess   *session.Store
}

func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = config.Default()
		cfg.ResolveEnv()
	}
	metrics.StartServer(cfg.Metrics.Addr)
	db, err := clientdb.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	client, err := apiclient.New(cfg.Server.BaseURL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if name, value, ok, err := db.LoadSession(context.Background()); err == nil && ok {
		client.RestoreSessionCookies([]*http.Cookie{{Name: name, Value: value}})
	}
	sess := session.New(client)
	client.OnUnauthorized(func() {
		sess.Invalidate()
		_ = db.ClearSession(context.Background())
	})
	return &app{cfg: cfg, db: db, client: client, sess: sess}, nil
}

func (a *app) close() { _ = a.db.Close() }

// persistSession stores the API's session cookie so the next invocation
// starts authenticated.
func (a *app) persistSession(ctx context.Context) {
	for _, c := range a.client.SessionCookies() {
		_ = a.db.SaveSession(ctx, c.Name, c.Value, time.Now().UTC())
		return
	}
}

// hintLogin prints the redirect-to-login hint when the session gate forced
// the session out during this invocation.
func (a *app) hintLogin() {
	select {
	case <-a.sess.Redirects():
		fmt.Println("session expired: run 'twitterapp login' to sign in again")
	default:
	}
}

func fail(err error) {
	fmt.Println("error:", err)
	os.Exit(1)
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./twitterapp.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fail(err)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdRegister() {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	id := fs.String("id", "", "user id (letters, digits, _ and -)")
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 chars)")
	confirm := fs.String("confirm", "", "password confirmation")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("register", func() error {
		f := form.Register{
			UserID: *id, UserName: *name, PhoneNumber: *phone,
			Email: *email, Password: *password, ConfirmPassword: *confirm,
		}
		if err := f.Validate(); err != nil {
			return err
		}
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		u, err := a.sess.Register(ctx, apiclient.RegisterRequest{
			UserID: *id, UserName: *name, PhoneNumber: *phone,
			Email: *email, Password: *password,
		})
		if err != nil {
			return err
		}
		a.persistSession(ctx)
		fmt.Printf("Registered and logged in as @%s (%s)\n", u.UserID, u.UserName)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdLogin() {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("login", func() error {
		f := form.Login{Email: *email, Password: *password}
		if err := f.Validate(); err != nil {
			return err
		}
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		if err := a.sess.Login(ctx, *email, *password); err != nil {
			return err
		}
		a.persistSession(ctx)
		if u := a.sess.Current(); u != nil {
			fmt.Printf("Logged in as @%s (%s)\n", u.UserID, u.UserName)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdLogout() {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("logout", func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		if err := a.sess.Logout(ctx); err != nil {
			return err
		}
		_ = a.db.ClearSession(ctx)
		fmt.Println("Logged out")
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdWhoami() {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("whoami", func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.sess.Probe(context.Background()); err != nil {
			a.hintLogin()
			return err
		}
		u := a.sess.Current()
		fmt.Printf("@%s  %s  %s\n", u.UserID, u.UserName, u.Email)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdTimeline() {
	fs := flag.NewFlagSet("timeline", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	page := fs.Int("page", 1, "page number (1-indexed)")
	size := fs.Int("size", 0, "page size (default from config)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("timeline", func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		if *size <= 0 {
			*size = a.cfg.Paging.PageSize
		}
		f := feed.New(a.client)
		if err := f.LoadPage(context.Background(), *page, *size); err != nil {
			a.hintLogin()
			return err
		}
		col := f.Collection()
		for _, t := range col.Items() {
			printTweet(t)
		}
		fmt.Printf("page %d  showing %d of %d tweets\n", col.Page(), col.Len(), col.Total())
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdPost() {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	content := fs.String("content", "", "tweet text (max 280 chars)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("post", func() error {
		if err := (form.Content{Text: util.NormalizeWhitespace(*content)}).Validate(); err != nil {
			return err
		}
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		f := feed.New(a.client)
		t, err := f.Post(ctx, *content)
		if err != nil {
			a.hintLogin()
			return err
		}
		_ = a.db.PutAction(ctx, time.Now().UTC(), "post", fmt.Sprint(t.TweetID))
		fmt.Printf("Posted tweet %d\n", t.TweetID)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	id := fs.Int64("id", 0, "tweet id")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("delete", func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		f := feed.New(a.client)
		if err := f.Delete(ctx, *id); err != nil {
			a.hintLogin()
			return err
		}
		_ = a.db.PutAction(ctx, time.Now().UTC(), "delete", fmt.Sprint(*id))
		fmt.Printf("Deleted tweet %d\n", *id)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdToggle(name string, kind model.ReactionKind) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	id := fs.Int64("id", 0, "tweet id")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run(name, func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		col := feed.NewCollection[model.Tweet]()
		th := thread.New(a.client, *id, col)
		if _, err := th.LoadParent(ctx); err != nil {
			a.hintLogin()
			return err
		}
		toggler := react.NewToggler(a.client, col)
		if err := toggler.Toggle(ctx, *id, kind); err != nil {
			a.hintLogin()
			return err
		}
		_ = a.db.PutAction(ctx, time.Now().UTC(), name, fmt.Sprint(*id))
		if t, ok := col.Get(*id); ok {
			active, count := t.ReactionState(kind)
			state := "off"
			if active {
				state = "on"
			}
			fmt.Printf("%s %s for tweet %d (count %d)\n", name, state, *id, count)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdReplies() {
	fs := flag.NewFlagSet("replies", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	tweetID := fs.Int64("tweet", 0, "tweet id")
	page := fs.Int("page", 1, "page number (1-indexed)")
	size := fs.Int("size", 0, "page size (default from config)")
	parent := fs.Int64("parent", 0, "parent reply id for threaded replies")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("replies", func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		if *size <= 0 {
			*size = a.cfg.Paging.PageSize
		}
		ctx := context.Background()
		col := feed.NewCollection[model.Tweet]()
		th := thread.New(a.client, *tweetID, col)
		tw, err := th.LoadParent(ctx)
		if err != nil {
			a.hintLogin()
			return err
		}
		var parentID *int64
		if *parent > 0 {
			parentID = parent
		}
		if err := th.LoadPage(ctx, *page, *size, parentID); err != nil {
			a.hintLogin()
			return err
		}
		printTweet(tw)
		replies := th.Replies()
		for _, r := range replies.Items() {
			fmt.Printf("  └ #%d @%s: %s\n", r.ReplyID, r.UserID, util.Excerpt(r.Content, 120))
		}
		fmt.Printf("page %d  showing %d of %d replies\n", replies.Page(), replies.Len(), replies.Total())
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdReply() {
	fs := flag.NewFlagSet("reply", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	tweetID := fs.Int64("tweet", 0, "tweet id")
	content := fs.String("content", "", "reply text (max 280 chars)")
	parent := fs.Int64("parent", 0, "parent reply id for threaded replies")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("reply", func() error {
		if err := (form.Content{Text: util.NormalizeWhitespace(*content)}).Validate(); err != nil {
			return err
		}
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		col := feed.NewCollection[model.Tweet]()
		th := thread.New(a.client, *tweetID, col)
		if _, err := th.LoadParent(ctx); err != nil {
			a.hintLogin()
			return err
		}
		var parentID *int64
		if *parent > 0 {
			parentID = parent
		}
		r, err := th.Post(ctx, *content, parentID)
		if err != nil {
			a.hintLogin()
			return err
		}
		_ = a.db.PutAction(ctx, time.Now().UTC(), "reply", fmt.Sprint(r.ReplyID))
		if t, ok := col.Get(*tweetID); ok {
			fmt.Printf("Replied with %d; tweet %d now has %d replies\n", r.ReplyID, t.TweetID, t.ReplyCount)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdRmReply() {
	fs := flag.NewFlagSet("rmreply", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	id := fs.Int64("id", 0, "reply id")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("rmreply", func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		// look the reply up first so the right thread does the removal
		r, err := a.client.Reply(ctx, *id)
		if err != nil {
			a.hintLogin()
			return err
		}
		col := feed.NewCollection[model.Tweet]()
		th := thread.New(a.client, r.TweetID, col)
		if _, err := th.LoadParent(ctx); err != nil {
			a.hintLogin()
			return err
		}
		if err := th.LoadPage(ctx, 1, a.cfg.Paging.PageSize, nil); err != nil {
			a.hintLogin()
			return err
		}
		if err := th.Delete(ctx, *id); err != nil {
			a.hintLogin()
			return err
		}
		_ = a.db.PutAction(ctx, time.Now().UTC(), "rmreply", fmt.Sprint(*id))
		fmt.Printf("Deleted reply %d\n", *id)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	cfgPath := fs.String("config", "./twitterapp.yaml", "config path")
	days := fs.Int("days", 7, "how many days back to aggregate")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("history", func() error {
		a, err := newApp(*cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := context.Background()
		end := time.Now().UTC()
		start := end.Add(-time.Duration(*days) * 24 * time.Hour)
		actions, err := a.db.LoadActionsRange(ctx, start, end, "")
		if err != nil {
			return err
		}
		buckets := analytics.HourlyActivity(actions)
		for _, k := range analytics.SortedBucketKeys(buckets) {
			fmt.Printf("%s ", k.Format("2006-01-02 15:00"))
			for typ, n := range buckets[k] {
				fmt.Printf(" %s=%d", typ, n)
			}
			fmt.Println()
		}
		fmt.Printf("%d actions in the last %d days\n", len(actions), *days)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func printTweet(t model.Tweet) {
	marks := ""
	if t.IsLiked {
		marks += " ♥"
	}
	if t.IsRetweeted {
		marks += " ⟳"
	}
	if t.IsBookmarked {
		marks += " ⚑"
	}
	fmt.Printf("#%d @%s (%s)%s\n  %s\n  likes=%d retweets=%d replies=%d bookmarks=%d\n",
		t.TweetID, t.UserID, t.CreatedAt.Local().Format("2006-01-02 15:04"), marks,
		util.Excerpt(t.Content, 160), t.LikeCount, t.RetweetCount, t.ReplyCount, t.BookmarkCount)
}
