package classify

import (
	"testing"

	"github.com/dgnsrekt/apisync/internal/types"
)

func TestClassifyBearer(t *testing.T) {
	headers := []types.Header{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "Authorization", Value: "Bearer eyJhbGciOiJIUzI1NiJ9.payload.sig"},
	}
	got := Classify(headers)
	if got.Type != types.AuthBearer {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthBearer)
	}
	if got.Value != "eyJhbGciOiJIUzI1NiJ9.payload.sig" {
		t.Fatalf("Value = %q; want token without prefix", got.Value)
	}
}

func TestClassifyBasic(t *testing.T) {
	headers := []types.Header{
		{Name: "authorization", Value: "Basic dXNlcjpwYXNz"},
	}
	got := Classify(headers)
	if got.Type != types.AuthBasic {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthBasic)
	}
	if got.Value != "dXNlcjpwYXNz" {
		t.Fatalf("Value = %q; want credentials without prefix", got.Value)
	}
}

func TestClassifyAPIKeyHeader(t *testing.T) {
	for _, name := range []string{"X-Api-Key", "x-api-key", "ApiKey", "My-ApiKey-Header"} {
		headers := []types.Header{{Name: name, Value: "secret123"}}
		got := Classify(headers)
		if got.Type != types.AuthAPIKey {
			t.Fatalf("header %q: Type = %q; want %q", name, got.Type, types.AuthAPIKey)
		}
		if got.Value != "secret123" {
			t.Fatalf("header %q: Value = %q; want %q", name, got.Value, "secret123")
		}
	}
}

func TestClassifySessionCookie(t *testing.T) {
	headers := []types.Header{
		{Name: "Cookie", Value: "theme=dark; sessionid=abc123; lang=en"},
	}
	got := Classify(headers)
	if got.Type != types.AuthCookie {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthCookie)
	}
	if got.Value != "theme=dark; sessionid=abc123; lang=en" {
		t.Fatalf("Value = %q; want full cookie header", got.Value)
	}
}

func TestClassifyNonSessionCookieIsNone(t *testing.T) {
	headers := []types.Header{
		{Name: "Cookie", Value: "theme=dark; lang=en"},
	}
	if got := Classify(headers); got.Type != types.AuthNone {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthNone)
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// A request carrying several schemes resolves to the strongest one.
	headers := []types.Header{
		{Name: "Cookie", Value: "sessionid=abc"},
		{Name: "X-Api-Key", Value: "key456"},
		{Name: "Authorization", Value: "Bearer tok789"},
	}
	got := Classify(headers)
	if got.Type != types.AuthBearer {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthBearer)
	}

	// Without the Authorization header the api key wins over the cookie.
	got = Classify(headers[:2])
	if got.Type != types.AuthAPIKey {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthAPIKey)
	}
}

func TestClassifyUnrecognizedAuthorizationScheme(t *testing.T) {
	headers := []types.Header{
		{Name: "Authorization", Value: "Digest username=admin"},
	}
	if got := Classify(headers); got.Type != types.AuthNone {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthNone)
	}
}

func TestClassifyEmpty(t *testing.T) {
	if got := Classify(nil); got.Type != types.AuthNone {
		t.Fatalf("Type = %q; want %q", got.Type, types.AuthNone)
	}
}

func TestDisplayValue(t *testing.T) {
	longToken := "aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd" // 40 chars

	tests := []struct {
		name string
		auth types.AuthDescriptor
		want string
	}{
		{"short_bearer", types.AuthDescriptor{Type: types.AuthBearer, Value: "tok"}, "tok"},
		{"long_bearer", types.AuthDescriptor{Type: types.AuthBearer, Value: longToken}, longToken[:20] + "..." + longToken[30:]},
		{"long_basic", types.AuthDescriptor{Type: types.AuthBasic, Value: longToken}, longToken[:20] + "..." + longToken[30:]},
		{"short_apikey", types.AuthDescriptor{Type: types.AuthAPIKey, Value: "key"}, "key"},
		{"long_apikey", types.AuthDescriptor{Type: types.AuthAPIKey, Value: "0123456789abcdef0123"}, "0123456789abcde..."},
		{"cookie", types.AuthDescriptor{Type: types.AuthCookie, Value: "sessionid=abc"}, "Session cookie"},
		{"none", types.AuthDescriptor{Type: types.AuthNone}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayValue(tt.auth); got != tt.want {
				t.Fatalf("DisplayValue() = %q; want %q", got, tt.want)
			}
		})
	}
}
