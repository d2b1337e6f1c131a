package postman

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLeafRoundTripKeepsUnmodeledFields(t *testing.T) {
	// A leaf carrying fields the agent never touches: a request
	// description, an urlencoded body, oauth2 auth params, a structured
	// URL with port and path variables, and a header with entry-level
	// metadata. Rewriting the leaf's auth header must not strip any of
	// them.
	raw := `{"name":"List users","request":{"method":"GET","description":"List active users",` +
		`"header":[{"key":"X-Request-Id","value":"abc","description":"trace id","disabled":true}],` +
		`"url":{"raw":"https://api.example.com:8443/users/:id","protocol":"https",` +
		`"host":["api","example","com"],"path":["users",":id"],"port":"8443",` +
		`"variable":[{"key":"id","value":"1"}],"hash":"results"},` +
		`"body":{"mode":"urlencoded","urlencoded":[{"key":"page","value":"1"}]},` +
		`"auth":{"type":"oauth2","oauth2":[{"key":"grant_type","value":"authorization_code","type":"string"}]}}}`

	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	it.Request.SetHeader("Authorization", "Bearer tok123")

	out, err := json.Marshal(&it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(out)
	for _, want := range []string{
		`"description":"List active users"`,
		`"urlencoded":[{"key":"page","value":"1"}]`,
		`"oauth2":[{"key":"grant_type","value":"authorization_code","type":"string"}]`,
		`"port":"8443"`,
		`"variable":[{"key":"id","value":"1"}]`,
		`"hash":"results"`,
		`"description":"trace id"`,
		`"disabled":true`,
		`"value":"Bearer tok123"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("round trip lost %s:\n%s", want, got)
		}
	}
}

func TestFolderRoundTripKeepsItemMetadata(t *testing.T) {
	raw := `{"name":"Users","description":"User endpoints",` +
		`"protocolProfileBehavior":{"disableBodyPruning":true},` +
		`"item":[{"name":"Ping","request":{"method":"GET","url":"https://api.example.com/ping"}}]}`

	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(&it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, `"description":"User endpoints"`) {
		t.Fatalf("folder description lost:\n%s", got)
	}
	if !strings.Contains(got, `"protocolProfileBehavior":{"disableBodyPruning":true}`) {
		t.Fatalf("protocolProfileBehavior lost:\n%s", got)
	}
}
