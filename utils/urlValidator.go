package util

import (
	"strings"

	"intechdl/models"
)

type platformDomains struct {
	platform models.Platform
	domains  []string
}

// Checked in order; the first platform with a matching domain wins.
var platformDomainTable = []platformDomains{
	{platform: models.PlatformYouTube, domains: []string{"youtube.com", "youtu.be"}},
	{platform: models.PlatformTikTok, domains: []string{"tiktok.com"}},
	{platform: models.PlatformTwitter, domains: []string{"twitter.com", "x.com"}},
	{platform: models.PlatformInstagram, domains: []string{"instagram.com"}},
}

var platformDisplayNames = map[models.Platform]string{
	models.PlatformYouTube:   "YouTube",
	models.PlatformTikTok:    "TikTok",
	models.PlatformTwitter:   "Twitter",
	models.PlatformInstagram: "Instagram",
}

// ResolvePlatform returns hint unchanged when it names a known platform; the
// URL is not checked against it. Any other hint, including "auto" and empty,
// falls through to matching the URL against the domain table by plain
// substring containment. URLs matching nothing resolve to
// models.DefaultPlatform.
func ResolvePlatform(rawURL string, hint models.Platform) models.Platform {
	if IsKnownPlatform(hint) {
		return hint
	}

	for _, entry := range platformDomainTable {
		for _, domain := range entry.domains {
			if strings.Contains(rawURL, domain) {
				return entry.platform
			}
		}
	}

	return models.DefaultPlatform
}

// IsKnownPlatform reports whether p is one of the concrete platforms in the
// domain table. "auto" is not a concrete platform.
func IsKnownPlatform(p models.Platform) bool {
	_, ok := platformDisplayNames[p]
	return ok
}

// SupportedPlatforms lists the display names of the detectable platforms in
// detection order.
func SupportedPlatforms() []string {
	names := make([]string, 0, len(platformDomainTable))
	for _, entry := range platformDomainTable {
		names = append(names, platformDisplayNames[entry.platform])
	}
	return names
}
