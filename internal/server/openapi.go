package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Secret Santa API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for running Secret Santa gift exchanges.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	postGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	postGame.SetSummary("Create a game")
	postGame.SetDescription("Creates a gift-exchange game with its full participant roster. " +
		"The organizer is emailed the game ID, their only handle to manage the game later.")
	postGame.AddReqStructure(CreateGameRequest{})
	postGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get a game")
	getGame.SetDescription("Returns the game and its participants. Recipient assignments " +
		"are only present once the game has begun.")
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /api/games/{gameID}/begin
	postBegin, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/begin")
	postBegin.SetSummary("Begin a game")
	postBegin.SetDescription("Pairs every participant with a recipient, marks the game " +
		"started, and emails each participant their assignment. Can succeed at most once " +
		"per game; repeat calls return 409 without reshuffling or re-notifying.")
	postBegin.AddRespStructure(BeginGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postBegin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postBegin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postBegin)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	var cached []byte

	return func(w http.ResponseWriter, r *http.Request) {
		if cached == nil {
			data, err := json.MarshalIndent(newOpenAPISpec(), "", "  ")
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			cached = data
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
	}
}
