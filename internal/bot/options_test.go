package bot

import (
	"reflect"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"adds https scheme", "example.com/article", "https://example.com/article"},
		{"forces https", "http://example.com/article", "https://example.com/article"},
		{"canonicalizes twitter", "https://twitter.com/user/status/5", "https://x.com/user/status/5"},
		{"canonicalizes vxtwitter", "https://vxtwitter.com/user/status/5", "https://x.com/user/status/5"},
		{"strips query and fragment for x.com", "https://x.com/user/status/5?s=20&t=abc#top", "https://x.com/user/status/5"},
		{"strips query after alias rewrite", "http://twitter.com/user/status/5?s=20", "https://x.com/user/status/5"},
		{"keeps query for other domains", "https://example.com/a?q=1", "https://example.com/a?q=1"},
		{"does not treat box.com as x.com", "https://box.com/file?share=1", "https://box.com/file?share=1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeURL(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"example.com",
		"http://example.com/a?q=1",
		"https://twitter.com/user/status/5?s=20",
		"https://vxtwitter.com/user/status/5#frag",
		"https://x.com/user/status/5",
		"https://www.youtube.com/watch?v=abc",
	}
	for _, in := range inputs {
		once := NormalizeURL(in)
		twice := NormalizeURL(once)
		if once != twice {
			t.Fatalf("NormalizeURL not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDefaultTagsForURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"https://www.youtube.com/watch?v=abc", []string{"media"}},
		{"https://x.com/user/status/5", []string{"tweets"}},
		{"https://medium.com/@someone/post", []string{"reads"}},
		{"https://open.spotify.com/episode/123", []string{"podcast"}},
		{"https://www.bloomberg.com/news/articles/abc", []string{"news"}},
		{"https://example.com/article", []string{}},
	}
	for _, tc := range cases {
		got := DefaultTagsForURL(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("DefaultTagsForURL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestOptionLabel(t *testing.T) {
	t.Parallel()

	if got := OptionLabel(Sectors, "macro-markets"); got != "Macro & Markets" {
		t.Fatalf("expected Macro & Markets, got %q", got)
	}
	if got := OptionLabel(Types, "podcast"); got != "Podcast" {
		t.Fatalf("expected Podcast, got %q", got)
	}
	if got := OptionLabel(Types, "bogus"); got != "" {
		t.Fatalf("expected empty label for unknown slug, got %q", got)
	}
}
