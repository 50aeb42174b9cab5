// One-time helper to resolve YouTube channel IDs from handles.
//
// YouTube channel pages embed the channel ID in several places in the HTML;
// this fetches each handle's page, extracts the ID, and prints the RSS feed
// URL to paste into feeds.yaml as feed_url.
//
// Usage: go run scripts/resolve_youtube.go handle [handle...]
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

const feedURLTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// channelIDPatterns are the places YouTube embeds the channel ID in page HTML.
var channelIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"channelId"\s*:\s*"(UC[a-zA-Z0-9_-]{22})"`),
	regexp.MustCompile(`"externalId"\s*:\s*"(UC[a-zA-Z0-9_-]{22})"`),
	regexp.MustCompile(`<meta\s+itemprop="channelId"\s+content="(UC[a-zA-Z0-9_-]{22})"`),
	regexp.MustCompile(`"browseId"\s*:\s*"(UC[a-zA-Z0-9_-]{22})"`),
}

func resolveChannelID(client *http.Client, handle string) (string, error) {
	url := "https://www.youtube.com/@" + handle
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	for _, pattern := range channelIDPatterns {
		if m := pattern.FindSubmatch(body); m != nil {
			return string(m[1]), nil
		}
	}
	return "", fmt.Errorf("no channel ID found in %s", url)
}

func main() {
	handles := os.Args[1:]
	if len(handles) == 0 {
		log.Fatal("usage: go run scripts/resolve_youtube.go handle [handle...]")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	failed := 0

	for i, handle := range handles {
		handle = strings.TrimPrefix(handle, "@")
		fmt.Printf("@%s:\n", handle)

		channelID, err := resolveChannelID(client, handle)
		if err != nil {
			failed++
			fmt.Printf("  FAILED: %v\n", err)
			fmt.Printf("  Fallback: open https://www.youtube.com/@%s, view source, search for channelId\n", handle)
		} else {
			fmt.Printf("  channel_id: %s\n", channelID)
			fmt.Printf("  feed_url:   "+feedURLTemplate+"\n", channelID)
		}

		if i < len(handles)-1 {
			time.Sleep(1 * time.Second) // be polite
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
