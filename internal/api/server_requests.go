package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/apisync/internal/classify"
	"github.com/dgnsrekt/apisync/internal/syncer"
	"github.com/dgnsrekt/apisync/internal/types"
)

// RequestView is a buffered request plus its display-safe credential.
type RequestView struct {
	types.CapturedRequest
	AuthDisplay string `json:"auth_display,omitempty"`
}

func viewOf(req *types.CapturedRequest) RequestView {
	return RequestView{
		CapturedRequest: *req,
		AuthDisplay:     classify.DisplayValue(req.Auth),
	}
}

type requestIDInput struct {
	ID string `path:"id" doc:"Captured request id"`
}

func registerRequestHandlers(api huma.API, deps Deps) {
	type listRequestsOutput struct {
		Body struct {
			Requests []RequestView `json:"requests"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-requests", Method: http.MethodGet, Path: "/api/v1/requests", Summary: "List captured requests, newest first", Tags: []string{"Requests"}},
		func(ctx context.Context, input *struct{}) (*listRequestsOutput, error) {
			out := &listRequestsOutput{}
			out.Body.Requests = []RequestView{}
			for _, req := range deps.Buffer.List() {
				out.Body.Requests = append(out.Body.Requests, viewOf(req))
			}
			return out, nil
		})

	type getRequestOutput struct {
		Body RequestView
	}
	huma.Register(api, huma.Operation{OperationID: "get-request", Method: http.MethodGet, Path: "/api/v1/requests/{id}", Summary: "Get one captured request", Tags: []string{"Requests"}},
		func(ctx context.Context, input *requestIDInput) (*getRequestOutput, error) {
			req, ok := deps.Buffer.Get(input.ID)
			if !ok {
				return nil, mapErr(syncer.NewCodedError(syncer.CodeRequestNotFound, "request not found in buffer", nil))
			}
			out := &getRequestOutput{}
			out.Body = viewOf(req)
			return out, nil
		})

	type clearRequestsOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "clear-requests", Method: http.MethodDelete, Path: "/api/v1/requests", Summary: "Clear the capture buffer", Tags: []string{"Requests"}},
		func(ctx context.Context, input *struct{}) (*clearRequestsOutput, error) {
			deps.Buffer.Clear()
			if deps.Intake != nil {
				deps.Intake.Reset()
			}
			out := &clearRequestsOutput{}
			out.Body.Status = "cleared"
			return out, nil
		})

	type saveRequestInput struct {
		ID   string `path:"id"`
		Body struct {
			CollectionID string `json:"collection_id" doc:"Target collection id"`
			Mode         string `json:"mode,omitempty" enum:"create,upsert" doc:"create always appends; upsert replaces a pattern+method match in place"`
		}
	}
	type saveRequestOutput struct {
		Body struct {
			Name    string `json:"name"`
			Created bool   `json:"created"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "save-request", Method: http.MethodPost, Path: "/api/v1/requests/{id}/save", Summary: "Save a captured request to a collection", Tags: []string{"Requests"}},
		func(ctx context.Context, input *saveRequestInput) (*saveRequestOutput, error) {
			req, ok := deps.Buffer.Get(input.ID)
			if !ok {
				return nil, mapErr(syncer.NewCodedError(syncer.CodeRequestNotFound, "request not found in buffer", nil))
			}

			out := &saveRequestOutput{}
			switch input.Body.Mode {
			case "", "create":
				name, err := deps.Orch.Create(ctx, req, input.Body.CollectionID)
				if err != nil {
					return nil, mapErr(err)
				}
				out.Body.Name = name
				out.Body.Created = true
			case "upsert":
				created, name, err := deps.Orch.Upsert(ctx, req, input.Body.CollectionID)
				if err != nil {
					return nil, mapErr(err)
				}
				out.Body.Name = name
				out.Body.Created = created
			}
			return out, nil
		})

	type updateTokenInput struct {
		ID   string `path:"id"`
		Body struct {
			CollectionID string `json:"collection_id"`
		}
	}
	type updateTokenOutput struct {
		Body struct {
			Name string `json:"name"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "update-token", Method: http.MethodPost, Path: "/api/v1/requests/{id}/update-token", Summary: "Write a captured credential into the matching collection request", Tags: []string{"Requests"}},
		func(ctx context.Context, input *updateTokenInput) (*updateTokenOutput, error) {
			req, ok := deps.Buffer.Get(input.ID)
			if !ok {
				return nil, mapErr(syncer.NewCodedError(syncer.CodeRequestNotFound, "request not found in buffer", nil))
			}
			name, err := deps.Orch.UpdateAuth(ctx, req, input.Body.CollectionID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &updateTokenOutput{}
			out.Body.Name = name
			return out, nil
		})
}
