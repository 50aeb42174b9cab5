package feed

import (
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://example.com</link>
    <item>
      <title>First Post</title>
      <link>https://example.com/post/1</link>
      <guid>post-1</guid>
      <pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
      <description>Short teaser</description>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/post/2</link>
      <guid>post-2</guid>
      <description>Another teaser</description>
    </item>
  </channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Atom</title>
  <entry>
    <title>Atom Entry</title>
    <link href="https://example.com/atom/1"/>
    <id>atom-1</id>
    <updated>2025-01-02T03:04:05Z</updated>
    <content type="html">&lt;p&gt;Full body&lt;/p&gt;</content>
    <summary>Summary text</summary>
  </entry>
</feed>`

func TestParse_RSS(t *testing.T) {
	entries, err := Parse([]byte(sampleRSS))

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Title != "First Post" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.URL != "https://example.com/post/1" {
		t.Errorf("unexpected URL: %q", first.URL)
	}
	if first.GUID != "post-1" {
		t.Errorf("unexpected GUID: %q", first.GUID)
	}
	if first.Published == nil {
		t.Fatal("expected published time")
	}
	want := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if !first.Published.Equal(want) {
		t.Errorf("expected published %v, got %v", want, first.Published)
	}
	if first.Content != "Short teaser" {
		t.Errorf("expected description fallback, got %q", first.Content)
	}

	if entries[1].Published != nil {
		t.Errorf("expected nil published for undated item, got %v", entries[1].Published)
	}
}

func TestParse_AtomPrefersContent(t *testing.T) {
	entries, err := Parse([]byte(sampleAtom))

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Content != "<p>Full body</p>" {
		t.Errorf("expected content element to win over summary, got %q", entries[0].Content)
	}
	if entries[0].Published == nil {
		t.Error("expected updated timestamp to backfill published")
	}
}

func TestParse_InvalidPayload(t *testing.T) {
	_, err := Parse([]byte("<html><body>not a feed</body></html>"))

	if err == nil {
		t.Fatal("expected error for non-feed payload")
	}
}

func TestParse_EmptyFeed(t *testing.T) {
	payload := `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`

	entries, err := Parse([]byte(payload))

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
