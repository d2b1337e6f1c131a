// Package postman models the remote collection document tree and the
// Postman REST API used to read and replace it. The document is fetched in
// full, mutated locally, and written back wholesale; there is no partial
// update protocol.
package postman

import (
	"encoding/json"
	"strings"
)

// CollectionSummary is one entry from the collection listing endpoint.
type CollectionSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	UID  string `json:"uid"`
}

// User is the identity returned by the key-validation endpoint.
type User struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
}

// rawExtra carries the fields of a wire object this model does not touch.
// The document is written back wholesale, so every node keeps its unmodeled
// fields verbatim and re-emits them on marshal; without this a round trip
// would strip request descriptions, urlencoded bodies, oauth2 auth params
// and the like.
type rawExtra map[string]json.RawMessage

// splitExtra decodes data as an object and returns every field not in known.
func splitExtra(data []byte, known ...string) (rawExtra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtra folds the retained fields back into a marshaled object.
func mergeExtra(data []byte, extra rawExtra) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := obj[k]; !ok {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}

// Collection is a full collection document. Fields the agent does not touch
// (variables, events, collection-level auth) are carried as raw JSON so a
// read-modify-write round trip does not strip them.
type Collection struct {
	Info  CollectionInfo  `json:"info"`
	Items []*Item         `json:"item"`
	Vars  json.RawMessage `json:"variable,omitempty"`
	Event json.RawMessage `json:"event,omitempty"`
	Auth  json.RawMessage `json:"auth,omitempty"`

	extra rawExtra
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	type collection Collection
	var v collection
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "info", "item", "variable", "event", "auth")
	if err != nil {
		return err
	}
	v.extra = extra
	*c = Collection(v)
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	type collection Collection
	data, err := json.Marshal(collection(c))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, c.extra)
}

// CollectionInfo is the document's info block.
type CollectionInfo struct {
	PostmanID string `json:"_postman_id,omitempty"`
	Name      string `json:"name"`
	Schema    string `json:"schema,omitempty"`

	extra rawExtra
}

func (ci *CollectionInfo) UnmarshalJSON(data []byte) error {
	type collectionInfo CollectionInfo
	var v collectionInfo
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "_postman_id", "name", "schema")
	if err != nil {
		return err
	}
	v.extra = extra
	*ci = CollectionInfo(v)
	return nil
}

func (ci CollectionInfo) MarshalJSON() ([]byte, error) {
	type collectionInfo CollectionInfo
	data, err := json.Marshal(collectionInfo(ci))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, ci.extra)
}

// Item is a node of the document tree: a folder when Items is non-nil, a
// request leaf when Request is non-nil.
type Item struct {
	Name     string            `json:"name"`
	Items    []*Item           `json:"item,omitempty"`
	Request  *Request          `json:"request,omitempty"`
	Response []json.RawMessage `json:"response,omitempty"`
	Event    json.RawMessage   `json:"event,omitempty"`

	extra rawExtra
}

// IsFolder reports whether the item is a folder node.
func (it *Item) IsFolder() bool { return it.Request == nil }

func (it *Item) UnmarshalJSON(data []byte) error {
	type item Item
	var v item
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "name", "item", "request", "response", "event")
	if err != nil {
		return err
	}
	v.extra = extra
	*it = Item(v)
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	type item Item
	data, err := json.Marshal(item(it))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, it.extra)
}

// Request is a leaf request definition.
type Request struct {
	Method string `json:"method"`
	Header []KV   `json:"header,omitempty"`
	URL    URL    `json:"url"`
	Body   *Body  `json:"body,omitempty"`
	Auth   *Auth  `json:"auth,omitempty"`

	extra rawExtra
}

func (r *Request) UnmarshalJSON(data []byte) error {
	type request Request
	var v request
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "method", "header", "url", "body", "auth")
	if err != nil {
		return err
	}
	v.extra = extra
	*r = Request(v)
	return nil
}

func (r Request) MarshalJSON() ([]byte, error) {
	type request Request
	data, err := json.Marshal(request(r))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, r.extra)
}

// KV is a key/value entry used for headers, query params and auth
// attributes. Entry-level fields like description and disabled ride along.
type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`

	extra rawExtra
}

func (kv *KV) UnmarshalJSON(data []byte) error {
	type kvAlias KV
	var v kvAlias
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "key", "value", "type")
	if err != nil {
		return err
	}
	v.extra = extra
	*kv = KV(v)
	return nil
}

func (kv KV) MarshalJSON() ([]byte, error) {
	type kvAlias KV
	data, err := json.Marshal(kvAlias(kv))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, kv.extra)
}

// SetHeader replaces the first header with the given key (case-insensitive)
// or appends one when absent.
func (r *Request) SetHeader(key, value string) {
	for i := range r.Header {
		if strings.EqualFold(r.Header[i].Key, key) {
			r.Header[i].Value = value
			return
		}
	}
	r.Header = append(r.Header, KV{Key: key, Value: value})
}

// Body is a request body block. The agent only emits raw-mode bodies,
// tagged as JSON when the captured payload parsed as a structured value.
// Other modes (urlencoded, formdata, file, graphql) pass through untouched.
type Body struct {
	Mode    string       `json:"mode"`
	Raw     string       `json:"raw,omitempty"`
	Options *BodyOptions `json:"options,omitempty"`

	extra rawExtra
}

func (b *Body) UnmarshalJSON(data []byte) error {
	type body Body
	var v body
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "mode", "raw", "options")
	if err != nil {
		return err
	}
	v.extra = extra
	*b = Body(v)
	return nil
}

func (b Body) MarshalJSON() ([]byte, error) {
	type body Body
	data, err := json.Marshal(body(b))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, b.extra)
}

// BodyOptions selects the raw-body language hint.
type BodyOptions struct {
	Raw BodyLanguage `json:"raw"`
}

// BodyLanguage names the raw body's language for the editor.
type BodyLanguage struct {
	Language string `json:"language"`
}

// Auth is a request-level auth block. Only the schemes the agent writes are
// modeled; param arrays for other schemes (oauth2, awsv4, digest) are kept
// as raw JSON.
type Auth struct {
	Type   string `json:"type"`
	Bearer []KV   `json:"bearer,omitempty"`
	Basic  []KV   `json:"basic,omitempty"`
	APIKey []KV   `json:"apikey,omitempty"`

	extra rawExtra
}

func (a *Auth) UnmarshalJSON(data []byte) error {
	type auth Auth
	var v auth
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "type", "bearer", "basic", "apikey")
	if err != nil {
		return err
	}
	v.extra = extra
	*a = Auth(v)
	return nil
}

func (a Auth) MarshalJSON() ([]byte, error) {
	type auth Auth
	data, err := json.Marshal(auth(a))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, a.extra)
}

// URL is a request URL which the wire format represents either as a raw
// string or as a structured object. Both forms are accepted on read; the
// original form is preserved on write.
type URL struct {
	Raw      string   `json:"raw,omitempty"`
	Protocol string   `json:"protocol,omitempty"`
	Host     []string `json:"host,omitempty"`
	Path     []string `json:"path,omitempty"`
	Query    []KV     `json:"query,omitempty"`

	wasString bool
	extra     rawExtra
}

// NewRawURL builds a string-form URL.
func NewRawURL(raw string) URL {
	return URL{Raw: raw, wasString: true}
}

// String renders the URL back to its raw form. Structured objects without a
// raw field are recomposed from protocol/host/path.
func (u URL) String() string {
	if u.Raw != "" {
		return u.Raw
	}
	var b strings.Builder
	if u.Protocol != "" {
		b.WriteString(u.Protocol)
		b.WriteString("://")
	}
	b.WriteString(strings.Join(u.Host, "."))
	if len(u.Path) > 0 {
		b.WriteString("/")
		b.WriteString(strings.Join(u.Path, "/"))
	}
	return b.String()
}

func (u *URL) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = URL{Raw: s, wasString: true}
		return nil
	}
	type urlObject URL
	var obj urlObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	extra, err := splitExtra(data, "raw", "protocol", "host", "path", "query")
	if err != nil {
		return err
	}
	obj.extra = extra
	*u = URL(obj)
	return nil
}

func (u URL) MarshalJSON() ([]byte, error) {
	if u.wasString {
		return json.Marshal(u.Raw)
	}
	type urlObject URL
	data, err := json.Marshal(urlObject(u))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, u.extra)
}
