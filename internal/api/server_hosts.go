package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/apisync/internal/syncer"
	"github.com/dgnsrekt/apisync/internal/types"
)

func registerHostHandlers(api huma.API, deps Deps) {
	type listHostsOutput struct {
		Body struct {
			Hosts []types.HostAggregate `json:"hosts"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-hosts", Method: http.MethodGet, Path: "/api/v1/hosts", Summary: "List observed hosts by recency", Tags: []string{"Hosts"}},
		func(ctx context.Context, input *struct{}) (*listHostsOutput, error) {
			out := &listHostsOutput{}
			out.Body.Hosts = deps.Buffer.Hosts()
			return out, nil
		})

	type hostRequestsInput struct {
		Host string `path:"host" doc:"Host as it appears in the hosts listing"`
	}
	type hostRequestsOutput struct {
		Body struct {
			Host     string        `json:"host"`
			Requests []RequestView `json:"requests"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-host-requests", Method: http.MethodGet, Path: "/api/v1/hosts/{host}/requests", Summary: "List captured requests for one host, newest first", Tags: []string{"Hosts"}},
		func(ctx context.Context, input *hostRequestsInput) (*hostRequestsOutput, error) {
			out := &hostRequestsOutput{}
			out.Body.Host = input.Host
			out.Body.Requests = []RequestView{}
			for _, req := range deps.Buffer.RequestsForHost(input.Host) {
				out.Body.Requests = append(out.Body.Requests, viewOf(req))
			}
			return out, nil
		})

	type rotateTokenInput struct {
		Host string `path:"host" doc:"Host whose collection requests get the new credential"`
		Body struct {
			CollectionID string `json:"collection_id"`
			Token        string `json:"token,omitempty" doc:"Credential value; empty uses the newest captured credential for the host"`
			TokenType    string `json:"token_type,omitempty" enum:"bearer,basic,apikey" doc:"Scheme for an explicit token (default bearer)"`
		}
	}
	type rotateTokenOutput struct {
		Body syncer.RotationResult
	}
	huma.Register(api, huma.Operation{OperationID: "rotate-host-token", Method: http.MethodPost, Path: "/api/v1/hosts/{host}/rotate-token", Summary: "Rotate the credential on every collection request for a host", Tags: []string{"Hosts"}},
		func(ctx context.Context, input *rotateTokenInput) (*rotateTokenOutput, error) {
			auth := types.AuthDescriptor{
				Type:  types.AuthType(input.Body.TokenType),
				Value: input.Body.Token,
			}
			if auth.Value != "" && auth.Type == "" {
				auth.Type = types.AuthBearer
			}
			if auth.Value == "" {
				recent, ok := deps.Buffer.MostRecentWithAuth(input.Host)
				if !ok {
					return nil, mapErr(syncer.NewCodedError(syncer.CodeNoRequestsForHost, "no captured requests with credentials for host "+input.Host, nil))
				}
				auth = recent.Auth
			}

			result, err := deps.Orch.RotateHostCredential(ctx, input.Host, input.Body.CollectionID, auth)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &rotateTokenOutput{}
			out.Body = result
			return out, nil
		})
}
