package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/infra/fetcher"
	"feeddigest/internal/resilience/circuitbreaker"
	"feeddigest/internal/resilience/retry"
)

const validFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Post</title>
      <link>https://example.com/post/1</link>
    </item>
  </channel>
</rss>`

const emptyFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Empty</title></channel></rss>`

func newTestResolver() *Resolver {
	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false
	client := fetcher.New(cfg, retry.Config{
		MaxAttempts:    1,
		InitialDelay:   time.Millisecond,
		MaxDelay:       time.Millisecond,
		Multiplier:     1,
		JitterFraction: 0,
	}, circuitbreaker.Config{
		Name:             "test-resolver",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      1000,
	})
	return New(client)
}

func TestResolve_RSSTypeUsesCanonicalURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validFeed))
	}))
	defer server.Close()

	source := &entity.Source{
		Name:      "Direct Feed",
		SourceURL: server.URL + "/rss.xml",
		Type:      entity.SourceTypeRSS,
	}

	got, err := newTestResolver().Resolve(context.Background(), source)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != source.SourceURL {
		t.Errorf("expected %q, got %q", source.SourceURL, got)
	}
}

func TestResolve_SubstackAppendsFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/feed" {
			_, _ = w.Write([]byte(validFeed))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := &entity.Source{
		Name:      "Newsletter",
		SourceURL: server.URL + "/",
		Type:      entity.SourceTypeSubstack,
	}

	got, err := newTestResolver().Resolve(context.Background(), source)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != server.URL+"/feed" {
		t.Errorf("expected %q, got %q", server.URL+"/feed", got)
	}
}

func TestResolve_SiteAdvertisedAlternateLink(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<link rel="alternate" type="application/rss+xml" href="/custom/feed.xml">
		</head><body></body></html>`))
	})
	mux.HandleFunc("/custom/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validFeed))
	})

	source := &entity.Source{
		Name:      "Site With Link",
		SourceURL: server.URL,
		Type:      entity.SourceTypeSite,
	}

	got, err := newTestResolver().Resolve(context.Background(), source)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != server.URL+"/custom/feed.xml" {
		t.Errorf("expected advertised feed, got %q", got)
	}
}

func TestResolve_SiteProbesConventionalPaths(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head></head><body>no feed link</body></html>`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/atom.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validFeed))
	})

	source := &entity.Source{
		Name:      "Static Site",
		SourceURL: server.URL,
		Type:      entity.SourceTypeSite,
	}

	got, err := newTestResolver().Resolve(context.Background(), source)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != server.URL+"/atom.xml" {
		t.Errorf("expected probed feed, got %q", got)
	}
}

func TestResolve_SiteRejectsEntrylessCandidate(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(emptyFeed))
	})
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validFeed))
	})

	source := &entity.Source{
		Name:      "Empty Then Valid",
		SourceURL: server.URL,
		Type:      entity.SourceTypeSite,
	}

	got, err := newTestResolver().Resolve(context.Background(), source)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != server.URL+"/rss" {
		t.Errorf("expected first entry-bearing candidate, got %q", got)
	}
}

func TestResolve_NoCandidateValidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := &entity.Source{
		Name:      "Feedless Site",
		SourceURL: server.URL,
		Type:      entity.SourceTypeSite,
	}

	_, err := newTestResolver().Resolve(context.Background(), source)

	if !errors.Is(err, ErrNoFeedFound) {
		t.Errorf("expected ErrNoFeedFound, got %v", err)
	}
}

func TestResolve_YouTubeRequiresExplicitFeed(t *testing.T) {
	source := &entity.Source{
		Name:      "Channel",
		SourceURL: "https://www.youtube.com/@somechannel",
		Type:      entity.SourceTypeYouTube,
	}

	_, err := newTestResolver().Resolve(context.Background(), source)

	if !errors.Is(err, ErrExplicitFeedRequired) {
		t.Errorf("expected ErrExplicitFeedRequired, got %v", err)
	}
}

func TestResolve_ExplicitFeedURLWins(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/videos.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validFeed))
	})

	feedURL := server.URL + "/videos.xml"
	source := &entity.Source{
		Name:      "Channel",
		SourceURL: "https://www.youtube.com/@somechannel",
		FeedURL:   &feedURL,
		Type:      entity.SourceTypeYouTube,
	}

	got, err := newTestResolver().Resolve(context.Background(), source)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != feedURL {
		t.Errorf("expected explicit feed URL, got %q", got)
	}
}

func TestResolve_ExplicitFeedURLFailingValidationIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	// Explicit feed is broken even though discovery would have worked.
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(validFeed))
	})

	feedURL := server.URL + "/broken.xml"
	source := &entity.Source{
		Name:      "Broken Explicit",
		SourceURL: server.URL,
		FeedURL:   &feedURL,
		Type:      entity.SourceTypeSubstack,
	}

	_, err := newTestResolver().Resolve(context.Background(), source)

	if err == nil {
		t.Fatal("expected error when explicit feed URL fails validation")
	}
}

func TestMediumFeedURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "profile",
			url:  "https://medium.com/@somebody",
			want: "https://medium.com/feed/@somebody",
		},
		{
			name: "profile with dots",
			url:  "https://medium.com/@some.body-1",
			want: "https://medium.com/feed/@some.body-1",
		},
		{
			name: "publication on custom domain",
			url:  "https://ai.gopubby.com",
			want: "https://medium.com/feed/ai",
		},
		{
			name: "not a URL",
			url:  "medium",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mediumFeedURL(tt.url); got != tt.want {
				t.Errorf("mediumFeedURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
