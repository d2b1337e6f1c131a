package urlpattern

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"uuid_segment", "https://api.example.com/api/products/550e8400-e29b-41d4-a716-446655440000", "/api/products/:id"},
		{"numeric_segment", "https://api.example.com/api/users/42/orders/1234", "/api/users/:id/orders/:id"},
		{"opaque_slug", "https://api.example.com/v1/items/a1b2c3d4e5", "/v1/items/:id"},
		{"hex24_object_id", "https://api.example.com/docs/507f1f77bcf86cd799439011", "/docs/:id"},
		{"plain_words_survive", "https://api.example.com/api/categories/electronics", "/api/categories/electronics"},
		{"long_plain_word_survives", "https://api.example.com/api/notifications", "/api/notifications"},
		{"query_discarded", "https://api.example.com/api/search?q=42&page=3", "/api/search"},
		{"bare_path", "/api/users/42", "/api/users/:id"},
		{"root", "https://api.example.com/", "/"},
		{"underscore_token", "/files/report_2024_final1", "/files/:id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"https://api.example.com/api/users/42",
		"/api/products/550e8400-e29b-41d4-a716-446655440000",
		"/api/categories/electronics",
		"/v1/items/a1b2c3d4e5/details",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical_after_normalize", "https://x.test/api/users/42", "/api/users/99", 1.0},
		{"disjoint", "/api/users", "/orders/list", 0.0},
		{"partial", "/api/users/42", "/api/orders/42", 2.0 / 3.0},
		{"different_lengths", "/api/users", "/api/users/42/detail", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Similarity(%q, %q) = %v; want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://api.example.com:8443/v1/users"); got != "api.example.com:8443" {
		t.Fatalf("Host() = %q; want %q", got, "api.example.com:8443")
	}
	if got := Host("/just/a/path"); got != "" {
		t.Fatalf("Host() = %q; want empty for bare path", got)
	}
}
