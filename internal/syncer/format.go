package syncer

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/dgnsrekt/apisync/internal/postman"
	"github.com/dgnsrekt/apisync/internal/types"
)

// FormatLeaf renders a captured request into the collection store's leaf
// shape. The leaf name is synthesized as "{METHOD} {path}".
func FormatLeaf(req *types.CapturedRequest) *postman.Item {
	leaf := &postman.Item{
		Name: LeafName(req),
		Request: &postman.Request{
			Method: strings.ToUpper(req.Method),
			URL:    postman.NewRawURL(req.URL),
		},
	}

	for _, h := range req.Headers {
		leaf.Request.Header = append(leaf.Request.Header, postman.KV{Key: h.Name, Value: h.Value})
	}

	if req.Body != "" {
		leaf.Request.Body = formatBody(req)
	}
	leaf.Request.Auth = formatAuth(req.Auth)
	return leaf
}

// LeafName synthesizes the display name for a captured request.
func LeafName(req *types.CapturedRequest) string {
	path := req.URL
	if u, err := url.Parse(req.URL); err == nil && u.Path != "" {
		path = u.Path
	}
	return strings.ToUpper(req.Method) + " " + path
}

// formatBody emits a raw-text body block, tagged as JSON with
// pretty-printing when the captured payload parsed as a structured value.
func formatBody(req *types.CapturedRequest) *postman.Body {
	body := &postman.Body{Mode: "raw", Raw: req.Body}
	if req.BodyJSON {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(req.Body), "", "  "); err == nil {
			body.Raw = pretty.String()
		}
		body.Options = &postman.BodyOptions{Raw: postman.BodyLanguage{Language: "json"}}
	}
	return body
}

// formatAuth maps a descriptor onto the store's auth-block shape. Cookie
// credentials stay in the raw headers only; none emits no block.
func formatAuth(auth types.AuthDescriptor) *postman.Auth {
	switch auth.Type {
	case types.AuthBearer:
		return &postman.Auth{
			Type:   "bearer",
			Bearer: []postman.KV{{Key: "token", Value: auth.Value, Type: "string"}},
		}
	case types.AuthBasic:
		return &postman.Auth{
			Type:  "basic",
			Basic: []postman.KV{{Key: "password", Value: auth.Value, Type: "string"}},
		}
	case types.AuthAPIKey:
		return &postman.Auth{
			Type: "apikey",
			APIKey: []postman.KV{
				{Key: "key", Value: "Authorization", Type: "string"},
				{Key: "value", Value: auth.Value, Type: "string"},
			},
		}
	default:
		return nil
	}
}

// headerCredential renders a descriptor as an Authorization header value:
// bearer tokens get their prefix back, everything else passes through raw.
func headerCredential(auth types.AuthDescriptor) string {
	if auth.Type == types.AuthBearer {
		return "Bearer " + auth.Value
	}
	return auth.Value
}
