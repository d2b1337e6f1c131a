package capture

import (
	"net/url"
	"path"
	"strings"
)

// staticExtensions are asset suffixes that never qualify as API traffic.
var staticExtensions = map[string]bool{
	".js":    true,
	".css":   true,
	".map":   true,
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".gif":   true,
	".svg":   true,
	".ico":   true,
	".webp":  true,
	".woff":  true,
	".woff2": true,
	".ttf":   true,
}

// apiResourceTypes are the CDP resource types admitted to the buffer.
var apiResourceTypes = map[string]bool{
	"XHR":   true,
	"Fetch": true,
}

// IsAPITraffic reports whether a request should be admitted: http(s) scheme,
// XHR/fetch resource type, and not a static asset. An empty resource type is
// admitted so event sources that do not label requests still work.
func IsAPITraffic(rawURL, resourceType string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if resourceType != "" && !apiResourceTypes[resourceType] {
		return false
	}
	if staticExtensions[strings.ToLower(path.Ext(u.Path))] {
		return false
	}
	return true
}
