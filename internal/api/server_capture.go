package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/apisync/internal/types"
)

func registerCaptureHandlers(api huma.API, deps Deps) {
	type captureStateOutput struct {
		Body types.CaptureState
	}

	huma.Register(api, huma.Operation{OperationID: "get-capture-state", Method: http.MethodGet, Path: "/api/v1/capture", Summary: "Get the live-capture session state", Tags: []string{"Capture"}},
		func(ctx context.Context, input *struct{}) (*captureStateOutput, error) {
			out := &captureStateOutput{}
			out.Body = deps.Buffer.State()
			return out, nil
		})

	type startCaptureInput struct {
		Body struct {
			Host         string `json:"host" doc:"Target host (host[:port], no scheme)"`
			CollectionID string `json:"collection_id" doc:"Collection auto-synced captures land in"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "start-capture", Method: http.MethodPost, Path: "/api/v1/capture/start", Summary: "Arm live capture for one host+collection pair", Tags: []string{"Capture"}},
		func(ctx context.Context, input *startCaptureInput) (*captureStateOutput, error) {
			if input.Body.Host == "" || input.Body.CollectionID == "" {
				return nil, huma.Error400BadRequest("host and collection_id are required")
			}
			out := &captureStateOutput{}
			out.Body = deps.Buffer.Arm(input.Body.Host, input.Body.CollectionID, deps.Worker.Enqueue)
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "stop-capture", Method: http.MethodPost, Path: "/api/v1/capture/stop", Summary: "Disarm live capture and return the final session snapshot", Tags: []string{"Capture"}},
		func(ctx context.Context, input *struct{}) (*captureStateOutput, error) {
			out := &captureStateOutput{}
			out.Body = deps.Buffer.Disarm()
			if deps.Notify != nil {
				go deps.Notify(context.Background(), out.Body)
			}
			return out, nil
		})
}
