package util

// ConcurrentFragments picks how many fragments yt-dlp may fetch in parallel
// for one download, backing off as more downloads share the host.
func ConcurrentFragments(activeDownloads int, resolution string) int {
	fragments := 3

	switch {
	case activeDownloads <= 1:
		fragments = 4
	case activeDownloads <= 3:
		fragments = 3
	default:
		fragments = 2
	}

	// Small renditions gain nothing from a fourth connection.
	switch resolution {
	case "360p", "480p":
		if fragments > 3 {
			fragments = 3
		}
	}

	return fragments
}
