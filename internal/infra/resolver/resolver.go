// Package resolver maps a source's type tag and canonical URL to a concrete,
// validated feed location. Each type has one deterministic discovery rule;
// a candidate only wins after fetching it yields at least one parseable entry.
package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"feeddigest/internal/domain/entity"
	"feeddigest/internal/infra/feed"
	"feeddigest/internal/infra/fetcher"
)

// Sentinel errors for feed resolution.
var (
	// ErrNoFeedFound indicates every candidate failed validation
	ErrNoFeedFound = errors.New("no valid feed found")

	// ErrExplicitFeedRequired indicates the source type cannot be resolved
	// in-pipeline and needs a pre-resolved feed URL in the source list
	ErrExplicitFeedRequired = errors.New("source type requires an explicit feed URL")
)

// probePaths is the ordered list of conventional feed locations tried for
// generic sites, including nested variants used by static-site generators.
var probePaths = []string{
	"/feed",
	"/rss",
	"/rss.xml",
	"/atom.xml",
	"/feed.xml",
	"/index.xml",
	"/feed/feed.xml",
	"/feed/atom.xml",
	"/feed/index.xml",
}

var (
	mediumProfileRe = regexp.MustCompile(`^https?://medium\.com/(@[\w.-]+)`)
	mediumDomainRe  = regexp.MustCompile(`^https?://([\w-]+)\.[\w.-]+`)
)

// Resolver discovers and validates feed locations.
type Resolver struct {
	client *fetcher.Client
}

// New creates a Resolver that fetches candidates through the given client.
func New(client *fetcher.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the validated feed URL for the source. An explicit feed
// location in the source definition is authoritative and bypasses
// type-derived discovery entirely; if it fails validation the source does
// not resolve.
func (r *Resolver) Resolve(ctx context.Context, source *entity.Source) (string, error) {
	baseURL := strings.TrimRight(source.SourceURL, "/")

	if source.FeedURL != nil && *source.FeedURL != "" {
		if err := r.validate(ctx, *source.FeedURL); err != nil {
			return "", fmt.Errorf("explicit feed URL failed validation: %w", err)
		}
		return *source.FeedURL, nil
	}

	var candidates []string
	switch source.Type {
	case entity.SourceTypeRSS:
		// The canonical URL is itself the feed
		candidates = []string{source.SourceURL}
	case entity.SourceTypeSubstack:
		candidates = []string{baseURL + "/feed"}
	case entity.SourceTypeMedium:
		if candidate := mediumFeedURL(baseURL); candidate != "" {
			candidates = []string{candidate}
		}
	case entity.SourceTypeYouTube:
		// Channel feeds cannot be derived from a channel page URL without
		// scraping; a one-time external tool resolves them into the source
		// list instead.
		return "", ErrExplicitFeedRequired
	case entity.SourceTypeSite:
		candidates = r.siteCandidates(ctx, baseURL)
	}

	for _, candidate := range candidates {
		if err := r.validate(ctx, candidate); err != nil {
			slog.Debug("feed candidate rejected",
				slog.String("source", source.Name),
				slog.String("candidate", candidate),
				slog.Any("error", err))
			continue
		}
		return candidate, nil
	}

	return "", fmt.Errorf("%w for %s (%s)", ErrNoFeedFound, source.Name, source.SourceURL)
}

// validate fetches the candidate and requires at least one parseable entry.
func (r *Resolver) validate(ctx context.Context, feedURL string) error {
	result, err := r.client.Get(ctx, feedURL)
	if err != nil {
		return err
	}

	entries, err := feed.Parse(result.Body)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("feed at %s has no entries", feedURL)
	}
	return nil
}

// siteCandidates builds the candidate list for a generic site: any
// alternate-feed link advertised in the page head comes first, then the
// conventional probe paths.
func (r *Resolver) siteCandidates(ctx context.Context, baseURL string) []string {
	var candidates []string

	if advertised := r.advertisedFeedURL(ctx, baseURL); advertised != "" {
		candidates = append(candidates, advertised)
	}
	for _, path := range probePaths {
		candidates = append(candidates, baseURL+path)
	}
	return candidates
}

// advertisedFeedURL fetches the site's page and looks for a
// <link rel="alternate"> whose type mentions rss or atom. Relative hrefs are
// resolved against the page URL.
func (r *Resolver) advertisedFeedURL(ctx context.Context, baseURL string) string {
	result, err := r.client.Get(ctx, baseURL)
	if err != nil {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		return ""
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	var found string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		linkType := strings.ToLower(s.AttrOr("type", ""))
		if !strings.Contains(linkType, "rss") && !strings.Contains(linkType, "atom") {
			return true
		}
		href := s.AttrOr("href", "")
		if href == "" {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		found = base.ResolveReference(ref).String()
		return false
	})

	return found
}

// mediumFeedURL derives the feed location for a Medium source.
// A profile URL medium.com/@user maps to medium.com/feed/@user; a
// publication on a custom domain maps to medium.com/feed/<subdomain>.
func mediumFeedURL(baseURL string) string {
	if m := mediumProfileRe.FindStringSubmatch(baseURL); m != nil {
		return "https://medium.com/feed/" + m[1]
	}
	if m := mediumDomainRe.FindStringSubmatch(baseURL); m != nil {
		return "https://medium.com/feed/" + m[1]
	}
	return ""
}
