package handlers

import (
	"net/http"

	"ainotes/internal/service"
)

// AskHandler handles HTTP requests for questions over the caller's notes.
type AskHandler struct {
	askService service.AskService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(askService service.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

// AskRequest represents the HTTP request payload for a question.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for a question.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ServeHTTP handles POST /AI/ask.
//
// Returns 404 when none of the caller's notes match, 500 when matches carry
// no text and 502 when the embedding or generation service fails.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.askService.Ask(ctx, actor, req.Question)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to answer question")
		return
	}

	writeJSON(ctx, w, http.StatusOK, AskResponse{Question: resp.Question, Answer: resp.Answer})
}
