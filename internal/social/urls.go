package social

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	tiktokVideoPath = regexp.MustCompile(`/@[\w.-]+/video/[0-9]+$`)
	tiktokShortPath = regexp.MustCompile(`/t/[A-Za-z0-9]+$`)

	instagramPostPath = regexp.MustCompile(`/p/[A-Za-z0-9_-]+$`)
	instagramReelPath = regexp.MustCompile(`/reel/[A-Za-z0-9_-]+$`)
)

// IsTikTokPostURL reports whether raw points at an embeddable TikTok post.
// Profile and hashtag pages fail the path-shape check. Total: any input,
// including garbage, returns false rather than an error.
func IsTikTokPostURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, "tiktok.com") {
		return false
	}
	path := strings.TrimRight(u.Path, "/")
	return tiktokVideoPath.MatchString(path) || tiktokShortPath.MatchString(path)
}

// IsInstagramPostURL reports whether raw points at an embeddable Instagram
// post or reel.
func IsInstagramPostURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, "instagram.com") {
		return false
	}
	path := strings.TrimRight(u.Path, "/")
	return instagramPostPath.MatchString(path) || instagramReelPath.MatchString(path)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// stripDiacritics folds accented letters to their base form so "café" and
// "cafe" slug identically.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	if folded, _, err := transform.String(stripDiacritics, s); err == nil {
		s = folded
	}
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizePlaceKey derives a deterministic cache key slug from a place name
// and optional city, insensitive to casing and punctuation variance so
// near-duplicate queries share one cache entry.
func NormalizePlaceKey(name, city string) string {
	nameSlug := slugify(name)
	citySlug := slugify(city)
	if citySlug != "" {
		return nameSlug + "--" + citySlug
	}
	return nameSlug
}
