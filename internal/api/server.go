// Package api is the agent's command surface: a local REST API consumed by
// the presentation layer and the companion CLI. Every operation returns a
// typed body or a mapped error with a short human-readable message.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgnsrekt/apisync/internal/capture"
	"github.com/dgnsrekt/apisync/internal/relay"
	"github.com/dgnsrekt/apisync/internal/storage"
	"github.com/dgnsrekt/apisync/internal/syncer"
	"github.com/dgnsrekt/apisync/internal/types"
)

// TabCounter reports how many browser tabs the agent is attached to.
type TabCounter interface {
	GetTabCount() int
}

// Deps wires the command surface to the agent's components.
type Deps struct {
	Buffer   *capture.Buffer
	Intake   *capture.Intake
	Orch     *syncer.Orchestrator
	Worker   *syncer.Worker
	Settings *storage.SettingsStore
	Broker   *relay.Broker
	Tabs     TabCounter

	// Notify, when set, is invoked with the final session snapshot after a
	// capture session is stopped.
	Notify func(context.Context, types.CaptureState)
}

// NewServer builds the HTTP handler for the command surface.
func NewServer(deps Deps) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("APISync Agent API", "1.0.0")
	api := humachi.New(router, cfg)

	registerRequestHandlers(api, deps)
	registerCaptureHandlers(api, deps)
	registerPostmanHandlers(api, deps)
	registerHostHandlers(api, deps)
	registerHealthHandlers(api, deps)

	if deps.Broker != nil {
		router.Get("/api/v1/events", relay.WSHandler(deps.Broker))
	}

	return router
}

// mapErr converts orchestration failures to stable HTTP errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *syncer.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case syncer.CodeValidation, syncer.CodeCredentialMissing:
			return huma.Error400BadRequest(coded.Message)
		case syncer.CodeCredentialInvalid:
			return huma.Error401Unauthorized(coded.Message)
		case syncer.CodeNoMatchingRequest, syncer.CodeNoRequestsForHost, syncer.CodeRequestNotFound:
			return huma.Error404NotFound(coded.Message)
		case syncer.CodeRemoteFailed:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(coded.Message)
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
