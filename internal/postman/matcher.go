package postman

import (
	"net/url"
	"strings"

	"github.com/dgnsrekt/apisync/internal/urlpattern"
)

// FindByPattern walks the tree depth-first, pre-order, and returns the first
// leaf whose normalized URL pattern equals the captured URL's pattern.
// Malformed leaf URLs never abort the search.
func FindByPattern(items []*Item, rawURL string) *Item {
	want := urlpattern.Normalize(rawURL)
	return findFirst(items, func(it *Item) bool {
		return urlpattern.Normalize(it.Request.URL.String()) == want
	})
}

// FindByPatternAndMethod is FindByPattern narrowed by case-insensitive
// HTTP method equality.
func FindByPatternAndMethod(items []*Item, rawURL, method string) *Item {
	want := urlpattern.Normalize(rawURL)
	return findFirst(items, func(it *Item) bool {
		return strings.EqualFold(it.Request.Method, method) &&
			urlpattern.Normalize(it.Request.URL.String()) == want
	})
}

// FindAllByPattern returns every leaf matching the captured URL's pattern,
// in traversal order. Used for diagnostics and bulk operations.
func FindAllByPattern(items []*Item, rawURL string) []*Item {
	want := urlpattern.Normalize(rawURL)
	return findAll(items, func(it *Item) bool {
		return urlpattern.Normalize(it.Request.URL.String()) == want
	})
}

// FindByHost returns every leaf whose URL host equals the target host
// exactly. Leaves whose URLs do not parse are skipped.
func FindByHost(items []*Item, host string) []*Item {
	return findAll(items, func(it *Item) bool {
		u, err := url.Parse(it.Request.URL.String())
		if err != nil {
			return false
		}
		return u.Host == host
	})
}

// ClosestByPattern returns the leaf whose URL is most similar to the given
// URL, with its similarity score. Used to suggest a fallback when no exact
// pattern match exists.
func ClosestByPattern(items []*Item, rawURL string) (*Item, float64) {
	var best *Item
	bestScore := 0.0
	for _, it := range findAll(items, func(*Item) bool { return true }) {
		score := urlpattern.Similarity(it.Request.URL.String(), rawURL)
		if score > bestScore {
			best, bestScore = it, score
		}
	}
	return best, bestScore
}

func findFirst(items []*Item, match func(*Item) bool) *Item {
	for _, it := range items {
		if it.IsFolder() {
			if found := findFirst(it.Items, match); found != nil {
				return found
			}
			continue
		}
		if match(it) {
			return it
		}
	}
	return nil
}

func findAll(items []*Item, match func(*Item) bool) []*Item {
	var out []*Item
	for _, it := range items {
		if it.IsFolder() {
			out = append(out, findAll(it.Items, match)...)
			continue
		}
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}
