package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"ainotes/internal/service"
	"ainotes/internal/service/mocks"
	"ainotes/internal/storage"
)

func TestNoteHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := testUser(4, storage.RoleUser)
	noteSvc := mocks.NewMockNoteService(ctrl)
	noteSvc.EXPECT().Create(gomock.Any(), actor, service.NoteInput{Title: "T", Content: "C"}).
		Return(&storage.Note{ID: 10, Title: "T", Content: "C", UserID: 4}, nil)

	w := httptest.NewRecorder()
	NewNoteHandler(noteSvc).Create(w, newRequest(http.MethodPost, "/notes/", `{"title":"T","content":"C"}`, actor, ""))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	var resp NotesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != 10 || resp.UserID != 4 || resp.Title != "T" {
		t.Errorf("response = %+v", resp)
	}
}

func TestNoteHandler_ErrorMapping(t *testing.T) {
	actor := testUser(4, storage.RoleUser)

	tests := []struct {
		name       string
		call       func(h *NoteHandler, w http.ResponseWriter)
		mockSetup  func(m *mocks.MockNoteService)
		wantStatus int
	}{
		{
			name: "get other user's note",
			call: func(h *NoteHandler, w http.ResponseWriter) {
				h.Get(w, newRequest(http.MethodGet, "/notes/1", "", actor, "1"))
			},
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().Get(gomock.Any(), actor, int64(1)).Return(nil, service.ErrForbidden)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "update missing note",
			call: func(h *NoteHandler, w http.ResponseWriter) {
				h.Update(w, newRequest(http.MethodPut, "/notes/2", `{"title":"a","content":"b"}`, actor, "2"))
			},
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().Update(gomock.Any(), actor, int64(2), gomock.Any()).Return(nil, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "create with indexing failure",
			call: func(h *NoteHandler, w http.ResponseWriter) {
				h.Create(w, newRequest(http.MethodPost, "/notes/", `{"title":"a","content":"b"}`, actor, ""))
			},
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().Create(gomock.Any(), actor, gomock.Any()).Return(nil, service.ErrDependency)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "delete",
			call: func(h *NoteHandler, w http.ResponseWriter) {
				h.Delete(w, newRequest(http.MethodDelete, "/notes/3", "", actor, "3"))
			},
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().Delete(gomock.Any(), actor, int64(3)).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "unauthenticated",
			call: func(h *NoteHandler, w http.ResponseWriter) {
				h.List(w, newRequest(http.MethodGet, "/notes/", "", nil, ""))
			},
			mockSetup:  func(*mocks.MockNoteService) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			noteSvc := mocks.NewMockNoteService(ctrl)
			tt.mockSetup(noteSvc)

			w := httptest.NewRecorder()
			tt.call(NewNoteHandler(noteSvc), w)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestNoteHandler_HTML(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := testUser(4, storage.RoleUser)
	noteSvc := mocks.NewMockNoteService(ctrl)
	noteSvc.EXPECT().Get(gomock.Any(), actor, int64(7)).Return(&storage.Note{
		ID:      7,
		Title:   "Plan <b>",
		Content: "# Heading\n\n- [x] done\n\n<script>alert(1)</script>",
		UserID:  4,
	}, nil)

	w := httptest.NewRecorder()
	NewNoteHandler(noteSvc).HTML(w, newRequest(http.MethodGet, "/notes/7/html", "", actor, "7"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{`<h1 id="heading">Heading</h1>`, `type="checkbox"`, "Plan &lt;b&gt;"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("raw HTML in note content must not be rendered")
	}
}
