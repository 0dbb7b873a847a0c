package service_test

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"ainotes/internal/auth"
	"ainotes/internal/service"
	"ainotes/internal/service/mocks"
	"ainotes/internal/storage"
	storage_mocks "ainotes/internal/storage/mocks"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.Hash("right")
	if err != nil {
		t.Fatalf("auth.Hash() error = %v", err)
	}
	stored := &storage.User{ID: 3, Email: "a@example.com", PasswordHash: hash, Role: storage.RoleUser}

	tests := []struct {
		name      string
		req       service.LoginRequest
		mockSetup func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager)
		wantErr   error
		wantToken string
	}{
		{
			name: "valid credentials",
			req:  service.LoginRequest{Email: "a@example.com", Password: "right"},
			mockSetup: func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager) {
				users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(stored, nil)
				tokens.EXPECT().IssueToken(int64(3), "User").Return("tok", nil)
			},
			wantToken: "tok",
		},
		{
			name: "wrong password",
			req:  service.LoginRequest{Email: "a@example.com", Password: "wrong"},
			mockSetup: func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager) {
				users.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(stored, nil)
			},
			wantErr: service.ErrUnauthorized,
		},
		{
			name: "unknown email",
			req:  service.LoginRequest{Email: "b@example.com", Password: "right"},
			mockSetup: func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager) {
				users.EXPECT().GetByEmail(gomock.Any(), "b@example.com").Return(nil, storage.ErrNotFound)
			},
			wantErr: service.ErrUnauthorized,
		},
		{
			name:      "missing password",
			req:       service.LoginRequest{Email: "a@example.com"},
			mockSetup: func(*storage_mocks.MockUserStore, *mocks.MockTokenManager) {},
			wantErr:   service.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			users := storage_mocks.NewMockUserStore(ctrl)
			tokens := mocks.NewMockTokenManager(ctrl)
			tt.mockSetup(users, tokens)

			svc := service.NewAuthService(users, tokens)
			got, err := svc.Login(testContext(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() unexpected error: %v", err)
			}
			if got.AccessToken != tt.wantToken || got.TokenType != "bearer" {
				t.Errorf("Login() = %+v", got)
			}
		})
	}
}

func TestAuthService_Authorize(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		mockSetup func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager)
		wantErr   error
	}{
		{
			name:  "valid token",
			token: "good",
			mockSetup: func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager) {
				tokens.EXPECT().VerifyToken("good").Return(&auth.Claims{UserID: 5, Role: "User"}, nil)
				users.EXPECT().GetByID(gomock.Any(), int64(5)).Return(regularUser(5), nil)
			},
		},
		{
			name:      "missing token",
			token:     "",
			mockSetup: func(*storage_mocks.MockUserStore, *mocks.MockTokenManager) {},
			wantErr:   service.ErrUnauthorized,
		},
		{
			name:  "invalid token",
			token: "bad",
			mockSetup: func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager) {
				tokens.EXPECT().VerifyToken("bad").Return(nil, auth.ErrInvalidToken)
			},
			wantErr: service.ErrUnauthorized,
		},
		{
			name:  "user deleted after issuance",
			token: "orphan",
			mockSetup: func(users *storage_mocks.MockUserStore, tokens *mocks.MockTokenManager) {
				tokens.EXPECT().VerifyToken("orphan").Return(&auth.Claims{UserID: 9, Role: "User"}, nil)
				users.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, storage.ErrNotFound)
			},
			wantErr: service.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			users := storage_mocks.NewMockUserStore(ctrl)
			tokens := mocks.NewMockTokenManager(ctrl)
			tt.mockSetup(users, tokens)

			user, err := service.NewAuthService(users, tokens).Authorize(testContext(), tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Authorize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || user.ID != 5 {
				t.Errorf("Authorize() = %v, %v", user, err)
			}
		})
	}
}

func TestAuthService_RequireAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewAuthService(storage_mocks.NewMockUserStore(ctrl), mocks.NewMockTokenManager(ctrl))
	if err := svc.RequireAdmin(adminUser(1)); err != nil {
		t.Errorf("RequireAdmin(admin) error = %v", err)
	}
	if err := svc.RequireAdmin(regularUser(2)); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("RequireAdmin(user) error = %v, want ErrForbidden", err)
	}
	if err := svc.RequireAdmin(nil); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("RequireAdmin(nil) error = %v, want ErrForbidden", err)
	}
}
