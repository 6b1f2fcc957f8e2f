package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const mediaRSS = `<?xml version="1.0"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <language>es</language>
    <image>
      <url>https://example.com/icon.png</url>
      <title>Test Feed</title>
      <link>https://example.com</link>
    </image>
    <item>
      <title>  Test Item 1 </title>
      <link>https://example.com/item1?utm_source=rss</link>
      <description>Test Item 1 Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <category>Technology</category>
      <media:content url="https://example.com/photo.jpg" medium="image" width="1024" height="768" type="image/jpeg"/>
      <media:thumbnail url="https://example.com/thumb.jpg" width="150" height="100"/>
      <enclosure url="https://example.com/audio.mp3" length="1024" type="audio/mpeg"/>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <media:group>
        <media:content url="https://example.com/grouped.png" medium="IMAGE"/>
        <media:thumbnail url="https://example.com/grouped-thumb.png"/>
      </media:group>
    </item>
  </channel>
</rss>`

func TestParseRSS2(t *testing.T) {
	parser := NewParser(NewFetcher(nil, "AutoNews/1.0"))
	metadata, items, err := parser.Run([]byte(mediaRSS))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got: %s", metadata.Title)
	}
	if metadata.Language != "es" {
		t.Errorf("Expected language 'es', got: %s", metadata.Language)
	}
	if metadata.ImageURL != "https://example.com/icon.png" {
		t.Errorf("Expected image URL 'https://example.com/icon.png', got: %s", metadata.ImageURL)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	item1 := items[0]
	if item1.Title != "Test Item 1" {
		t.Errorf("Expected trimmed title 'Test Item 1', got: '%s'", item1.Title)
	}
	if item1.GUID != "item-1" {
		t.Errorf("Expected GUID 'item-1', got: %s", item1.GUID)
	}
	if item1.PublishedAt == nil || !item1.PublishedAt.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected published date 2023-07-03 10:00 UTC, got: %v", item1.PublishedAt)
	}

	if len(item1.Enclosures) < 2 {
		t.Fatalf("Expected media content and enclosure, got: %+v", item1.Enclosures)
	}
	photo := item1.Enclosures[0]
	if photo.URL != "https://example.com/photo.jpg" || photo.Medium != "image" || photo.Width != 1024 || photo.Height != 768 {
		t.Errorf("Unexpected media content: %+v", photo)
	}

	var audio *Enclosure
	for i := range item1.Enclosures {
		if item1.Enclosures[i].URL == "https://example.com/audio.mp3" {
			audio = &item1.Enclosures[i]
		}
	}
	if audio == nil {
		t.Fatalf("Expected RSS enclosure to be collected, got: %+v", item1.Enclosures)
	}
	if audio.Type != "audio/mpeg" {
		t.Errorf("Expected enclosure type 'audio/mpeg', got: %s", audio.Type)
	}

	if len(item1.Thumbnails) != 1 || item1.Thumbnails[0].Width != 150 || item1.Thumbnails[0].Height != 100 {
		t.Errorf("Unexpected thumbnails: %+v", item1.Thumbnails)
	}

	item2 := items[1]
	if item2.GUID != "https://example.com/item2" {
		t.Errorf("Expected GUID to fall back to link, got: %s", item2.GUID)
	}
	if len(item2.Enclosures) != 1 || item2.Enclosures[0].Medium != "image" {
		t.Errorf("Expected grouped media content, got: %+v", item2.Enclosures)
	}
	if len(item2.Thumbnails) != 1 || item2.Thumbnails[0].Width != 0 {
		t.Errorf("Expected grouped thumbnail without dimensions, got: %+v", item2.Thumbnails)
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser(NewFetcher(nil, "AutoNews/1.0"))

	_, _, err := parser.Run([]byte("not a feed"))
	if err == nil {
		t.Error("Expected error for invalid feed")
	}
}

func TestParserFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(mediaRSS))
	}))
	defer server.Close()

	parser := NewParser(NewFetcher(server.Client(), "AutoNews/1.0"))

	_, items, err := parser.Fetch(context.Background(), server.URL, time.Second)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 items, got: %d", len(items))
	}
}

func TestParserFetchParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer server.Close()

	parser := NewParser(NewFetcher(server.Client(), "AutoNews/1.0"))

	_, _, err := parser.Fetch(context.Background(), server.URL, time.Second)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Expected ParseError, got: %v", err)
	}
}
