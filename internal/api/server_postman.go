package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/apisync/internal/postman"
	"github.com/dgnsrekt/apisync/internal/syncer"
)

func registerPostmanHandlers(api huma.API, deps Deps) {
	type listCollectionsOutput struct {
		Body struct {
			Collections []postman.CollectionSummary `json:"collections"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-collections", Method: http.MethodGet, Path: "/api/v1/collections", Summary: "List collections in the remote store", Tags: []string{"Postman"}},
		func(ctx context.Context, input *struct{}) (*listCollectionsOutput, error) {
			client, err := deps.Orch.Client()
			if err != nil {
				return nil, mapErr(err)
			}
			collections, err := client.ListCollections(ctx)
			if err != nil {
				return nil, mapErr(wrapRemote(err))
			}
			out := &listCollectionsOutput{}
			out.Body.Collections = collections
			return out, nil
		})

	type meOutput struct {
		Body postman.User
	}
	huma.Register(api, huma.Operation{OperationID: "test-connection", Method: http.MethodGet, Path: "/api/v1/postman/me", Summary: "Validate the stored API key against the remote store", Tags: []string{"Postman"}},
		func(ctx context.Context, input *struct{}) (*meOutput, error) {
			client, err := deps.Orch.Client()
			if err != nil {
				return nil, mapErr(err)
			}
			user, err := client.Me(ctx)
			if err != nil {
				return nil, mapErr(wrapRemote(err))
			}
			out := &meOutput{}
			out.Body = user
			return out, nil
		})

	type saveKeyInput struct {
		Body struct {
			APIKey string `json:"api_key" doc:"Postman API key; empty removes the stored key"`
		}
	}
	type saveKeyOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "save-api-key", Method: http.MethodPut, Path: "/api/v1/postman/key", Summary: "Save or remove the Postman API key", Tags: []string{"Postman"}},
		func(ctx context.Context, input *saveKeyInput) (*saveKeyOutput, error) {
			out := &saveKeyOutput{}
			if input.Body.APIKey == "" {
				if err := deps.Settings.DeleteAPIKey(); err != nil {
					return nil, huma.Error500InternalServerError(err.Error())
				}
				out.Body.Status = "removed"
				return out, nil
			}
			if err := deps.Settings.SaveAPIKey(input.Body.APIKey); err != nil {
				return nil, huma.Error500InternalServerError(err.Error())
			}
			out.Body.Status = "saved"
			return out, nil
		})
}

// wrapRemote lifts a raw store-client failure into the orchestrator's error
// taxonomy for uniform mapping.
func wrapRemote(err error) error {
	if errors.Is(err, postman.ErrInvalidAPIKey) {
		return syncer.NewCodedError(syncer.CodeCredentialInvalid, "Postman API key was rejected", err)
	}
	return syncer.NewCodedError(syncer.CodeRemoteFailed, err.Error(), err)
}
