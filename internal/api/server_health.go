package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func registerHealthHandlers(api huma.API, deps Deps) {
	type healthOutput struct {
		Body struct {
			Status        string `json:"status"`
			AttachedTabs  int    `json:"attached_tabs"`
			BufferedCount int    `json:"buffered_count"`
			EventClients  int    `json:"event_clients"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			if deps.Tabs != nil {
				out.Body.AttachedTabs = deps.Tabs.GetTabCount()
			}
			out.Body.BufferedCount = deps.Buffer.Len()
			if deps.Broker != nil {
				out.Body.EventClients = deps.Broker.ClientCount()
			}
			return out, nil
		})
}
