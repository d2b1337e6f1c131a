// Package syncer reconciles captured requests against the remote collection
// store: create, update-by-match, upsert, and bulk host credential
// rotation. Every operation performs exactly one remote fetch and at most
// one remote write; there is no version check, so concurrent writers against
// the same collection race last-write-wins.
package syncer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dgnsrekt/apisync/internal/postman"
	"github.com/dgnsrekt/apisync/internal/types"
)

// KeySource yields the stored collection-store API key. An empty string
// means no key has been saved.
type KeySource interface {
	APIKey() (string, error)
}

// Orchestrator drives collection-store reconciliation.
type Orchestrator struct {
	baseURL string
	keys    KeySource
	http    *http.Client
}

// NewOrchestrator creates an orchestrator. A nil http.Client falls back to
// http.DefaultClient inside the store client.
func NewOrchestrator(baseURL string, keys KeySource, hc *http.Client) *Orchestrator {
	return &Orchestrator{baseURL: baseURL, keys: keys, http: hc}
}

// RotationResult reports a bulk credential rotation.
type RotationResult struct {
	UpdatedCount int      `json:"updated_count"`
	Names        []string `json:"names"`
}

// Client builds a store client with the currently saved key. Fails with
// credential-missing when no key is stored.
func (o *Orchestrator) Client() (*postman.Client, error) {
	key, err := o.keys.APIKey()
	if err != nil {
		return nil, newError(CodeCredentialMissing, "failed to read API key", err)
	}
	if key == "" {
		return nil, newError(CodeCredentialMissing, "no Postman API key saved", nil)
	}
	return postman.NewClient(o.baseURL, key, o.http), nil
}

// Create appends the captured request to the collection as a fresh leaf.
// Duplicates are not checked; create always appends.
func (o *Orchestrator) Create(ctx context.Context, req *types.CapturedRequest, collectionID string) (string, error) {
	client, err := o.Client()
	if err != nil {
		return "", err
	}
	doc, err := client.GetCollection(ctx, collectionID)
	if err != nil {
		return "", remoteError(err)
	}

	leaf := FormatLeaf(req)
	doc.Items = append(doc.Items, leaf)

	if err := client.UpdateCollection(ctx, collectionID, doc); err != nil {
		return "", remoteError(err)
	}
	return leaf.Name, nil
}

// UpdateAuth locates the leaf matching the captured request's URL pattern
// and replaces its Authorization header with the captured credential. No
// leaf is created when nothing matches.
func (o *Orchestrator) UpdateAuth(ctx context.Context, req *types.CapturedRequest, collectionID string) (string, error) {
	if req.Auth.Type == types.AuthNone {
		return "", newError(CodeValidation, "captured request carries no credential", nil)
	}
	client, err := o.Client()
	if err != nil {
		return "", err
	}
	doc, err := client.GetCollection(ctx, collectionID)
	if err != nil {
		return "", remoteError(err)
	}

	leaf := postman.FindByPattern(doc.Items, req.URL)
	if leaf == nil {
		msg := "no matching request in collection"
		if closest, score := postman.ClosestByPattern(doc.Items, req.URL); closest != nil && score >= 0.5 {
			msg += fmt.Sprintf(" (closest: %q)", closest.Name)
		}
		return "", newError(CodeNoMatchingRequest, msg, nil)
	}
	leaf.Request.SetHeader("Authorization", headerCredential(req.Auth))

	if err := client.UpdateCollection(ctx, collectionID, doc); err != nil {
		return "", remoteError(err)
	}
	return leaf.Name, nil
}

// Upsert replaces the leaf matching the captured request's pattern+method
// in place, or appends a new leaf when none matches. Exactly one remote
// write either way. Returns true when a leaf was created.
func (o *Orchestrator) Upsert(ctx context.Context, req *types.CapturedRequest, collectionID string) (bool, string, error) {
	client, err := o.Client()
	if err != nil {
		return false, "", err
	}
	doc, err := client.GetCollection(ctx, collectionID)
	if err != nil {
		return false, "", remoteError(err)
	}

	formatted := FormatLeaf(req)
	created := false
	if existing := postman.FindByPatternAndMethod(doc.Items, req.URL, req.Method); existing != nil {
		existing.Name = formatted.Name
		existing.Request = formatted.Request
		formatted = existing
	} else {
		doc.Items = append(doc.Items, formatted)
		created = true
	}

	if err := client.UpdateCollection(ctx, collectionID, doc); err != nil {
		return false, "", remoteError(err)
	}
	return created, formatted.Name, nil
}

// RotateHostCredential sets the Authorization header of every leaf for the
// host to the given credential and writes the document back once. Fails when
// the collection holds no leaves for the host.
func (o *Orchestrator) RotateHostCredential(ctx context.Context, host, collectionID string, auth types.AuthDescriptor) (RotationResult, error) {
	if auth.Type == types.AuthNone || auth.Value == "" {
		return RotationResult{}, newError(CodeValidation, "no credential to rotate to", nil)
	}
	client, err := o.Client()
	if err != nil {
		return RotationResult{}, err
	}
	doc, err := client.GetCollection(ctx, collectionID)
	if err != nil {
		return RotationResult{}, remoteError(err)
	}

	leaves := postman.FindByHost(doc.Items, host)
	if len(leaves) == 0 {
		return RotationResult{}, newError(CodeNoMatchingRequest, "no requests for host "+host+" in collection", nil)
	}

	value := headerCredential(auth)
	result := RotationResult{UpdatedCount: len(leaves)}
	for _, leaf := range leaves {
		leaf.Request.SetHeader("Authorization", value)
		result.Names = append(result.Names, leaf.Name)
	}

	if err := client.UpdateCollection(ctx, collectionID, doc); err != nil {
		return RotationResult{}, remoteError(err)
	}
	return result, nil
}
