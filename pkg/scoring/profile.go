package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pressiona/radar-social/pkg/legislator"
)

// Per-platform profile URL patterns. Each captures the username as group 1.
var profilePatterns = map[legislator.Platform]*regexp.Regexp{
	legislator.PlatformTwitter:   regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|mobile\.)?(?:twitter\.com|x\.com)/@?([A-Za-z0-9_]{1,15})(?:[/?#].*)?$`),
	legislator.PlatformInstagram: regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?instagram\.com/@?([A-Za-z0-9_.]+)(?:[/?#].*)?$`),
	legislator.PlatformFacebook:  regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?facebook\.com/([A-Za-z0-9.]+)(?:[/?#].*)?$`),
	legislator.PlatformYouTube:   regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?youtube\.com/(@[A-Za-z0-9_.-]+|channel/UC[A-Za-z0-9_-]+|c/[A-Za-z0-9_.-]+|user/[A-Za-z0-9_.-]+)(?:[/?#].*)?$`),
	legislator.PlatformTikTok:    regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?tiktok\.com/@([A-Za-z0-9_.]+)(?:[/?#].*)?$`),
}

// First path segments that are site features, not profiles.
var reservedSegments = map[legislator.Platform]map[string]struct{}{
	legislator.PlatformTwitter: {
		"intent": {}, "share": {}, "hashtag": {}, "search": {}, "home": {},
		"i": {}, "explore": {}, "settings": {}, "login": {}, "status": {},
	},
	legislator.PlatformInstagram: {
		"p": {}, "reel": {}, "reels": {}, "explore": {}, "stories": {}, "accounts": {},
	},
	legislator.PlatformFacebook: {
		"sharer.php": {}, "share": {}, "sharer": {}, "pages": {}, "groups": {},
		"profile.php": {}, "watch": {}, "events": {}, "login.php": {}, "plugins": {},
	},
	legislator.PlatformTikTok: {
		"discover": {}, "tag": {}, "music": {}, "foryou": {},
	},
}

// ExtractUsername pulls the profile username out of a social URL or bare
// handle. It returns false for post permalinks, share links and anything
// that is not a profile on the requested platform.
func ExtractUsername(platform legislator.Platform, rawURL string) (string, bool) {
	re, ok := profilePatterns[platform]
	if !ok {
		return "", false
	}
	m := re.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", false
	}
	username := m[1]

	if reserved, ok := reservedSegments[platform]; ok {
		if _, bad := reserved[strings.ToLower(username)]; bad {
			return "", false
		}
	}
	// Post permalinks on twitter look like /<user>/status/<id>; the pattern
	// above already stops at the first path separator, but a bare "status"
	// segment is caught by the reserved set.
	return username, true
}

// CanonicalURL rebuilds the canonical profile URL for a platform/username
// pair, discarding query strings, post paths and scheme noise.
func CanonicalURL(platform legislator.Platform, username string) string {
	switch platform {
	case legislator.PlatformTwitter:
		return fmt.Sprintf("https://x.com/%s", username)
	case legislator.PlatformInstagram:
		return fmt.Sprintf("https://instagram.com/%s", username)
	case legislator.PlatformFacebook:
		return fmt.Sprintf("https://facebook.com/%s", username)
	case legislator.PlatformYouTube:
		return fmt.Sprintf("https://youtube.com/%s", username)
	case legislator.PlatformTikTok:
		return fmt.Sprintf("https://tiktok.com/@%s", username)
	default:
		return ""
	}
}

// Canonicalize extracts and rebuilds in one step.
func Canonicalize(platform legislator.Platform, rawURL string) (canonical, username string, ok bool) {
	username, ok = ExtractUsername(platform, rawURL)
	if !ok {
		return "", "", false
	}
	return CanonicalURL(platform, username), username, true
}

// Handles operated by the houses themselves, never a personal account.
var institutionalUsernames = map[string]struct{}{
	"camaradeputados":          {},
	"camaradosdeputados":       {},
	"agenciacamara":            {},
	"tvcamara":                 {},
	"senadofederal":            {},
	"senadodobrasil":           {},
	"agenciasenado":            {},
	"tvsenado":                 {},
	"radiosenado":              {},
	"congressonacional":        {},
	"uc-zksrh-7ueuwxjq9umcfja": {},
}

// URL fragments that mark institutional infrastructure rather than profiles.
var institutionalFragments = []string{
	"camara.leg.br",
	"senado.leg.br",
	"congressonacional.leg.br",
}

// IsInstitutional reports whether a username or URL belongs to the
// parliament's own accounts. These are filtered before any scoring.
func IsInstitutional(username, rawURL string) bool {
	u := strings.ToLower(strings.TrimPrefix(username, "@"))
	if _, ok := institutionalUsernames[u]; ok {
		return true
	}
	// YouTube channel usernames arrive as "channel/UC..." paths.
	if i := strings.LastIndex(u, "/"); i >= 0 {
		if _, ok := institutionalUsernames[u[i+1:]]; ok {
			return true
		}
	}
	lower := strings.ToLower(rawURL)
	for _, frag := range institutionalFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
