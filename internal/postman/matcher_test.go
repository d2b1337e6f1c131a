package postman

import "testing"

func leaf(name, method, rawURL string) *Item {
	return &Item{
		Name:    name,
		Request: &Request{Method: method, URL: NewRawURL(rawURL)},
	}
}

func folder(name string, children ...*Item) *Item {
	return &Item{Name: name, Items: children}
}

func testTree() []*Item {
	return []*Item{
		folder("Users",
			leaf("List users", "GET", "https://api.example.com/api/users"),
			leaf("Get user", "GET", "https://api.example.com/api/users/1"),
			leaf("Update user", "PUT", "https://api.example.com/api/users/1"),
		),
		folder("Orders",
			folder("Admin",
				leaf("Delete order", "DELETE", "https://api.example.com/api/orders/99"),
			),
			leaf("Get order", "GET", "https://api.example.com/api/orders/99"),
		),
		leaf("Health", "GET", "https://status.example.com/health"),
	}
}

func TestFindByPatternFirstInPreOrder(t *testing.T) {
	items := testTree()

	got := FindByPattern(items, "https://api.example.com/api/users/42")
	if got == nil {
		t.Fatal("FindByPattern() = nil; want a match")
	}
	// Two leaves share the pattern; depth-first pre-order picks the GET one.
	if got.Name != "Get user" {
		t.Fatalf("Name = %q; want %q", got.Name, "Get user")
	}
}

func TestFindByPatternDescendsIntoNestedFolders(t *testing.T) {
	items := testTree()

	got := FindByPattern(items, "https://api.example.com/api/orders/1234")
	if got == nil {
		t.Fatal("FindByPattern() = nil; want a match")
	}
	if got.Name != "Delete order" {
		t.Fatalf("Name = %q; want nested leaf %q", got.Name, "Delete order")
	}
}

func TestFindByPatternNoMatch(t *testing.T) {
	items := testTree()
	if got := FindByPattern(items, "https://api.example.com/api/products/1"); got != nil {
		t.Fatalf("FindByPattern() = %q; want nil", got.Name)
	}
}

func TestFindByPatternAndMethod(t *testing.T) {
	items := testTree()

	got := FindByPatternAndMethod(items, "https://api.example.com/api/users/42", "put")
	if got == nil {
		t.Fatal("FindByPatternAndMethod() = nil; want a match")
	}
	if got.Name != "Update user" {
		t.Fatalf("Name = %q; want %q", got.Name, "Update user")
	}

	if got := FindByPatternAndMethod(items, "https://api.example.com/api/users/42", "PATCH"); got != nil {
		t.Fatalf("FindByPatternAndMethod() = %q; want nil for unused method", got.Name)
	}
}

func TestFindAllByPattern(t *testing.T) {
	items := testTree()

	got := FindAllByPattern(items, "https://api.example.com/api/orders/7")
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[0].Name != "Delete order" || got[1].Name != "Get order" {
		t.Fatalf("order = [%q, %q]; want traversal order [Delete order, Get order]",
			got[0].Name, got[1].Name)
	}
}

func TestFindByHost(t *testing.T) {
	items := testTree()

	got := FindByHost(items, "api.example.com")
	if len(got) != 5 {
		t.Fatalf("len = %d; want 5", len(got))
	}
	if got := FindByHost(items, "status.example.com"); len(got) != 1 || got[0].Name != "Health" {
		t.Fatalf("FindByHost(status) = %v; want the single Health leaf", got)
	}
	if got := FindByHost(items, "other.example.com"); len(got) != 0 {
		t.Fatalf("FindByHost(other) = %d items; want 0", len(got))
	}
}

func TestClosestByPattern(t *testing.T) {
	items := testTree()

	got, score := ClosestByPattern(items, "https://api.example.com/api/users/42/avatar")
	if got == nil {
		t.Fatal("ClosestByPattern() = nil; want a suggestion")
	}
	if got.Name != "Get user" {
		t.Fatalf("Name = %q; want %q", got.Name, "Get user")
	}
	if score <= 0 || score >= 1 {
		t.Fatalf("score = %v; want a partial match in (0,1)", score)
	}

	if got, score := ClosestByPattern(nil, "https://x.test/a"); got != nil || score != 0 {
		t.Fatalf("ClosestByPattern(nil) = %v, %v; want nil, 0", got, score)
	}
}

func TestFindByPatternSkipsMalformedLeafURLs(t *testing.T) {
	items := []*Item{
		leaf("Broken", "GET", "://not a url"),
		leaf("Good", "GET", "https://api.example.com/api/users/1"),
	}
	got := FindByPattern(items, "https://api.example.com/api/users/42")
	if got == nil || got.Name != "Good" {
		t.Fatalf("FindByPattern() = %v; want the Good leaf", got)
	}
}
