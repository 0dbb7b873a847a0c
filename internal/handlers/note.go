package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"ainotes/internal/contextutil"
	"ainotes/internal/service"
)

// NoteHandler serves the /notes routes.
type NoteHandler struct {
	noteService service.NoteService
	markdown    goldmark.Markdown
	template    *template.Template
}

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Title     string
	NoteID    int64
	UserID    int64
	CreatedAt string
	Content   template.HTML
}

var notePage = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 820px;
      line-height: 1.6;
    }
    header {
      border-bottom: 1px solid #ddd;
      margin-bottom: 1.5rem;
    }
    pre {
      background: #f5f5f5;
      padding: 1rem;
      overflow-x: auto;
    }
    .meta {
      color: #666;
      font-size: 0.9rem;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Note {{.NoteID}} &middot; user {{.UserID}} &middot; {{.CreatedAt}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		// Raw HTML in note content is escaped: notes are user input.
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: notePage,
	}
}

// NoteRequest represents the payload for creating or replacing a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (req NoteRequest) toService() service.NoteInput {
	return service.NoteInput{Title: req.Title, Content: req.Content}
}

// Create handles POST /notes/.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.noteService.Create(ctx, actor, req.toService())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create note")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, newNotesResponse(note))
}

// List handles GET /notes/.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	notes, err := h.noteService.List(ctx, actor)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list notes")
		return
	}

	resp := make([]NotesResponse, 0, len(notes))
	for i := range notes {
		resp = append(resp, newNotesResponse(&notes[i]))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Get handles GET /notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	note, err := h.noteService.Get(ctx, actor, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, newNotesResponse(note))
}

// Update handles PUT /notes/{id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.noteService.Update(ctx, actor, id, req.toService())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, newNotesResponse(note))
}

// Delete handles DELETE /notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.noteService.Delete(ctx, actor, id); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HTML handles GET /notes/{id}/html, rendering the content as Markdown.
func (h *NoteHandler) HTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	note, err := h.noteService.Get(ctx, actor, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get note")
		return
	}

	content, err := h.renderMarkdown([]byte(note.Content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "note_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render note")
		return
	}

	var page bytes.Buffer
	err = h.template.Execute(&page, notePageData{
		Title:     note.Title,
		NoteID:    note.ID,
		UserID:    note.UserID,
		CreatedAt: note.CreatedAt.UTC().Format(time.RFC1123),
		Content:   template.HTML(content),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "note_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render note")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page.Bytes())
}

func (h *NoteHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
