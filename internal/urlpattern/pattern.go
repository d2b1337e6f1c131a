// Package urlpattern turns raw URLs into comparable path patterns by
// collapsing dynamic segments (numeric ids, UUIDs, opaque slugs) into a
// ":id" placeholder. Normalization is best-effort and idempotent.
package urlpattern

import (
	"net/url"
	"regexp"
	"strings"
)

const placeholder = ":id"

var (
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	numericSegment = regexp.MustCompile(`^\d+$`)
	opaqueSegment  = regexp.MustCompile(`^[A-Za-z0-9_-]{8,}$`)
	alphaOnly      = regexp.MustCompile(`^[A-Za-z]+$`)
	hex24Segment   = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

// Normalize reduces a URL to its path with dynamic segments replaced by
// ":id". Unparseable input is returned unchanged; query and fragment are
// discarded. Normalize(Normalize(u)) == Normalize(u) for all u.
func Normalize(rawURL string) string {
	path := pathOf(rawURL)
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" || seg == placeholder {
			continue
		}
		switch {
		case uuidSegment.MatchString(seg):
			segments[i] = placeholder
		case numericSegment.MatchString(seg):
			segments[i] = placeholder
		case opaqueSegment.MatchString(seg) && !alphaOnly.MatchString(seg):
			// Opaque slugs and tokens. Plain words of any length survive so
			// that resource names like "products" stay comparable.
			segments[i] = placeholder
		case hex24Segment.MatchString(seg):
			// Mongo-style object ids. Covered by the opaque rule for any
			// plain hex run, kept as an explicit pass.
			segments[i] = placeholder
		}
	}
	return strings.Join(segments, "/")
}

// Similarity scores how alike two URLs are after normalization: the share of
// same-position equal segments over the longer segment count, in [0,1].
// Used only to suggest fallback matches.
func Similarity(a, b string) float64 {
	segsA := strings.Split(strings.Trim(Normalize(a), "/"), "/")
	segsB := strings.Split(strings.Trim(Normalize(b), "/"), "/")
	max := len(segsA)
	if len(segsB) > max {
		max = len(segsB)
	}
	if max == 0 {
		return 0
	}
	matches := 0
	for i := 0; i < len(segsA) && i < len(segsB); i++ {
		if segsA[i] == segsB[i] {
			matches++
		}
	}
	return float64(matches) / float64(max)
}

// pathOf extracts the path component of an absolute URL. Inputs that do not
// parse as a URL with a host are treated as already being paths.
func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Host == "" && u.Scheme == "" {
		// Already a bare path (or a previously normalized pattern).
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}
	return u.Path
}

// Host returns the scheme-less host[:port] of a URL, or "" when the URL
// does not parse or carries no host.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
