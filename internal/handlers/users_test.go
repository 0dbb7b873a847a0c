package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"ainotes/internal/service"
	"ainotes/internal/service/mocks"
	"ainotes/internal/storage"
)

func TestUserHandler_Create(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		mockSetup  func(m *mocks.MockUserService)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"email":"a@example.com","password":"pw"}`,
			mockSetup: func(m *mocks.MockUserService) {
				m.EXPECT().Create(gomock.Any(), service.CreateUserRequest{Email: "a@example.com", Password: "pw"}).
					Return(&storage.User{ID: 3, Email: "a@example.com", PasswordHash: "secret-hash", CreatedAt: created}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: `{"email":"a@example.com","password":"pw"}`,
			mockSetup: func(m *mocks.MockUserService) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, service.ErrConflict)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "invalid email",
			body: `{"email":"nope","password":"pw"}`,
			mockSetup: func(m *mocks.MockUserService) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, &service.ValidationError{Field: "email", Message: "must be a valid email address"})
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			userSvc := mocks.NewMockUserService(ctrl)
			tt.mockSetup(userSvc)

			w := httptest.NewRecorder()
			NewUserHandler(userSvc).Create(w, newRequest(http.MethodPost, "/users/", tt.body, nil, ""))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			if strings.Contains(w.Body.String(), "secret-hash") || strings.Contains(w.Body.String(), "password") {
				t.Errorf("response leaks the password: %s", w.Body.String())
			}
			var resp UserResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.ID != 3 || !resp.CreatedAt.Equal(created) {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestUserHandler_CreateAdmin_Forbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := testUser(2, storage.RoleUser)
	userSvc := mocks.NewMockUserService(ctrl)
	userSvc.EXPECT().CreateAdmin(gomock.Any(), actor, gomock.Any()).Return(nil, service.ErrForbidden)

	w := httptest.NewRecorder()
	NewUserHandler(userSvc).CreateAdmin(w, newRequest(http.MethodPost, "/admin/", `{"email":"b@example.com","password":"pw"}`, actor, ""))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestUserHandler_GetAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := testUser(2, storage.RoleUser)
	userSvc := mocks.NewMockUserService(ctrl)
	userSvc.EXPECT().Get(gomock.Any(), int64(9)).Return(nil, service.ErrNotFound)
	userSvc.EXPECT().Delete(gomock.Any(), actor, int64(2)).Return(nil)

	h := NewUserHandler(userSvc)

	w := httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "/users/9", "", actor, "9"))
	if w.Code != http.StatusNotFound {
		t.Errorf("Get status = %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/users/2", "", actor, "2"))
	if w.Code != http.StatusNoContent {
		t.Errorf("Delete status = %d, want 204", w.Code)
	}
}
