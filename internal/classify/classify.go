// Package classify maps outgoing request headers to an authentication
// descriptor. Classification is pure and never fails: unrecognised input
// degrades to AuthNone.
package classify

import (
	"strings"

	"github.com/dgnsrekt/apisync/internal/types"
)

// sessionCookieNames are cookie name prefixes that mark a session cookie.
// Matched case-insensitively against the raw Cookie header value.
var sessionCookieNames = []string{
	"sessionid=",
	"session=",
	"sid=",
	"connect.sid=",
	"phpsessid=",
	"jsessionid=",
	"asp.net_sessionid=",
}

// Classify inspects an ordered header list and returns the first matching
// auth scheme. Precedence: bearer, basic, api key, session cookie, none.
func Classify(headers []types.Header) types.AuthDescriptor {
	for _, h := range headers {
		if !strings.EqualFold(h.Name, "Authorization") {
			continue
		}
		if rest, ok := strings.CutPrefix(h.Value, "Bearer "); ok {
			return types.AuthDescriptor{Type: types.AuthBearer, Value: strings.TrimSpace(rest)}
		}
		if rest, ok := strings.CutPrefix(h.Value, "Basic "); ok {
			return types.AuthDescriptor{Type: types.AuthBasic, Value: strings.TrimSpace(rest)}
		}
	}
	for _, h := range headers {
		name := strings.ToLower(h.Name)
		if strings.Contains(name, "api-key") || strings.Contains(name, "apikey") {
			return types.AuthDescriptor{Type: types.AuthAPIKey, Value: h.Value}
		}
	}
	for _, h := range headers {
		if !strings.EqualFold(h.Name, "Cookie") {
			continue
		}
		lower := strings.ToLower(h.Value)
		for _, name := range sessionCookieNames {
			if strings.Contains(lower, name) {
				return types.AuthDescriptor{Type: types.AuthCookie, Value: h.Value}
			}
		}
	}
	return types.AuthDescriptor{Type: types.AuthNone}
}

// DisplayValue formats a credential for UI display. Long bearer/basic values
// collapse to first20...last10, api keys to first15..., cookies to a label.
// Never used for sync payloads.
func DisplayValue(auth types.AuthDescriptor) string {
	switch auth.Type {
	case types.AuthBearer, types.AuthBasic:
		if len(auth.Value) > 30 {
			return auth.Value[:20] + "..." + auth.Value[len(auth.Value)-10:]
		}
		return auth.Value
	case types.AuthAPIKey:
		if len(auth.Value) > 15 {
			return auth.Value[:15] + "..."
		}
		return auth.Value
	case types.AuthCookie:
		return "Session cookie"
	default:
		return ""
	}
}
