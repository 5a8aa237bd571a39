package bot

import (
	"net/url"
	"strings"
)

// Option is a {slug, title} pair from one of the two closed vocabularies.
type Option struct {
	Slug  string
	Title string
}

// Types are the content-format labels for a Reads item.
var Types = []Option{
	{Slug: "reads", Title: "Reads"},
	{Slug: "media", Title: "Media"},
	{Slug: "tweets", Title: "Tweets"},
	{Slug: "news", Title: "News"},
	{Slug: "podcast", Title: "Podcast"},
	{Slug: "other", Title: "Other"},
}

// Sectors are the topical categories for a Reads item.
var Sectors = []Option{
	{Slug: "general", Title: "General"},
	{Slug: "ai", Title: "AI"},
	{Slug: "finance", Title: "DeFi"},
	{Slug: "infrastructure", Title: "Infrastructure"},
	{Slug: "macro-markets", Title: "Macro & Markets"},
	{Slug: "metaverse", Title: "NFTs & Gaming"},
}

// Ordered so the lookup is deterministic; a URL matches at most one entry.
var defaultTagsForDomain = []struct {
	domain string
	tags   []string
}{
	{"bloomberg.com", []string{"news"}},
	{"medium.com", []string{"reads"}},
	{"spotify.com", []string{"podcast"}},
	{"x.com", []string{"tweets"}},
	{"youtube.com", []string{"media"}},
}

// OptionLabel returns the display title for a slug, or "" when the slug
// is not part of the vocabulary.
func OptionLabel(options []Option, slug string) string {
	for _, opt := range options {
		if opt.Slug == slug {
			return opt.Title
		}
	}
	return ""
}

func validOption(options []Option, slug string) bool {
	return OptionLabel(options, slug) != ""
}

// DefaultTagsForURL prefills the tag list for known hostnames. Consulted
// once, when a URL is accepted.
func DefaultTagsForURL(rawURL string) []string {
	for _, entry := range defaultTagsForDomain {
		if strings.Contains(rawURL, entry.domain) {
			return entry.tags
		}
	}
	return []string{}
}

// NormalizeURL canonicalizes a user-supplied URL: default to https, force
// https over http, rewrite twitter alias hostnames to x.com, and strip
// query and fragment from x.com links. Idempotent.
func NormalizeURL(rawURL string) string {
	clean := rawURL

	if !strings.HasPrefix(clean, "http") {
		clean = "https://" + clean
	}
	clean = strings.Replace(clean, "http://", "https://", 1)

	u, err := url.Parse(clean)
	if err != nil {
		return clean
	}

	switch u.Hostname() {
	case "twitter.com", "www.twitter.com", "mobile.twitter.com", "vxtwitter.com", "www.vxtwitter.com":
		u.Host = "x.com"
	}

	if isTwitterHost(u.Hostname()) {
		// x.com query params are per-user tracking state; keep origin+path.
		return u.Scheme + "://" + u.Host + u.Path
	}

	return clean
}

func isTwitterHost(host string) bool {
	return host == "x.com" || strings.HasSuffix(host, ".x.com")
}

func isTwitterURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return isTwitterHost(u.Hostname())
}
