package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"notedash-server/internal/cache"
	"notedash-server/internal/domain"
	"notedash-server/internal/repository"
	"notedash-server/pkg/hash"
	. "notedash-server/pkg/jwt"
)

const authTestSecret = "auth-test-secret"

func newTestAuthService() (*AuthService, *repository.MemoryUserRepository) {
	repo := repository.NewMemoryUserRepository()
	service := NewAuthService(repo, cache.NewMemoryTokenBlacklist(), authTestSecret, 15*time.Minute, 7*24*time.Hour)
	return service, repo
}

func seedUser(t *testing.T, repo *repository.MemoryUserRepository, id, email, password string) {
	t.Helper()
	hashedPw, err := hash.Hash(password)
	if err != nil {
		t.Fatalf("hash.Hash() error = %v", err)
	}
	if err := repo.Create(context.Background(), &domain.User{
		ID:          id,
		DisplayName: "Test User",
		Email:       email,
		Password:    hashedPw,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *domain.RegisterRequest
		wantErr error
		setup   func(repo *repository.MemoryUserRepository)
	}{
		{
			name: "successful registration",
			req: &domain.RegisterRequest{
				DisplayName: "New User",
				Email:       "new@example.com",
				Password:    "Password123!",
			},
		},
		{
			name: "email is normalised",
			req: &domain.RegisterRequest{
				DisplayName: "Mixed Case",
				Email:       "  Mixed@Example.COM ",
				Password:    "Password123!",
			},
		},
		{
			name: "duplicate email",
			req: &domain.RegisterRequest{
				DisplayName: "Another",
				Email:       "existing@example.com",
				Password:    "Password123!",
			},
			wantErr: ErrEmailTaken,
			setup: func(repo *repository.MemoryUserRepository) {
				seedUser(t, repo, "existing-id", "existing@example.com", "ExistingPass123!")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestAuthService()
			if tt.setup != nil {
				tt.setup(repo)
			}

			user, err := service.Register(ctx, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Register() unexpected error = %v", err)
			}

			if user.Password != "" {
				t.Error("Register() returned user with password")
			}

			stored, err := repo.FindByID(ctx, user.ID)
			if err != nil {
				t.Fatalf("Register() user not created in repository: %v", err)
			}
			if stored.Password == "" || stored.Password == tt.req.Password {
				t.Error("Register() stored password is not hashed")
			}
			if stored.Email != "new@example.com" && stored.Email != "mixed@example.com" {
				t.Errorf("Register() stored email = %q", stored.Email)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestAuthService()

	password := "UserPassword123!"
	seedUser(t, repo, "test-user-id", "test@example.com", password)

	tests := []struct {
		name    string
		req     *domain.LoginRequest
		wantErr bool
	}{
		{
			name:    "successful login",
			req:     &domain.LoginRequest{Email: "test@example.com", Password: password},
			wantErr: false,
		},
		{
			name:    "email case is ignored",
			req:     &domain.LoginRequest{Email: "TEST@example.com", Password: password},
			wantErr: false,
		},
		{
			name:    "wrong password",
			req:     &domain.LoginRequest{Email: "test@example.com", Password: "WrongPassword"},
			wantErr: true,
		},
		{
			name:    "non-existent email",
			req:     &domain.LoginRequest{Email: "nonexistent@example.com", Password: password},
			wantErr: true,
		},
		{
			name:    "empty password",
			req:     &domain.LoginRequest{Email: "test@example.com", Password: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Login(ctx, tt.req)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Login() unexpected error = %v", err)
			}

			if resp.AccessToken == "" {
				t.Error("Login() returned empty access token")
			}

			if resp.RefreshToken == "" {
				t.Error("Login() returned empty refresh token")
			}

			if resp.User == nil || resp.User.Password != "" {
				t.Error("Login() must return the user without its password")
			}

			if resp.ExpiresIn != int64(15*time.Minute.Seconds()) {
				t.Errorf("Login() expiresIn = %v, want %v", resp.ExpiresIn, 15*60)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestAuthService()

	validToken, _ := GenerateRefreshToken("refresh-user-id", 7*24*time.Hour, authTestSecret)
	expiredToken, _ := GenerateRefreshToken("refresh-user-id", -1*time.Hour, authTestSecret)
	accessToken, _ := GenerateToken("refresh-user-id", time.Hour, authTestSecret)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid refresh token", validToken, false},
		{"expired refresh token", expiredToken, true},
		{"access token is not a refresh token", accessToken, true},
		{"invalid refresh token", "invalid.token.here", true},
		{"empty refresh token", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.RefreshToken(ctx, &domain.RefreshTokenRequest{RefreshToken: tt.token})

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Errorf("RefreshToken() error = %v, want ErrInvalidToken", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("RefreshToken() unexpected error = %v", err)
			}

			if resp.AccessToken == "" {
				t.Error("RefreshToken() returned empty access token")
			}

			claims, err := ValidateTokenOfType(resp.AccessToken, authTestSecret, TokenTypeAccess)
			if err != nil {
				t.Fatalf("RefreshToken() issued an unusable access token: %v", err)
			}
			if claims.UserID != "refresh-user-id" {
				t.Errorf("RefreshToken() userID = %v, want refresh-user-id", claims.UserID)
			}
		})
	}
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestAuthService()

	validToken, _ := GenerateToken("user-id", 1*time.Hour, authTestSecret)
	refreshToken, _ := GenerateRefreshToken("user-id", 1*time.Hour, authTestSecret)
	foreignToken, _ := GenerateToken("user-id", 1*time.Hour, "other-secret")

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid token", validToken, false},
		{"refresh token", refreshToken, true},
		{"foreign secret", foreignToken, true},
		{"invalid token", "invalid.token.format", true},
		{"empty token", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateAccessToken(ctx, tt.token)

			if tt.wantErr {
				if err == nil {
					t.Error("ValidateAccessToken() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("ValidateAccessToken() unexpected error = %v", err)
			}

			if claims.UserID != "user-id" {
				t.Errorf("ValidateAccessToken() userID = %v, want user-id", claims.UserID)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestAuthService()
	seedUser(t, repo, "logout-user", "logout@example.com", "Password123!")

	resp, err := service.Login(ctx, &domain.LoginRequest{Email: "logout@example.com", Password: "Password123!"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := service.ValidateAccessToken(ctx, resp.AccessToken); err != nil {
		t.Fatalf("ValidateAccessToken() before logout error = %v", err)
	}

	if err := service.Logout(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := service.ValidateAccessToken(ctx, resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAccessToken() after logout error = %v, want ErrInvalidToken", err)
	}

	_, err = service.RefreshToken(ctx, &domain.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("RefreshToken() after logout error = %v, want ErrInvalidToken", err)
	}

	if err := service.Logout(ctx, "garbage", ""); err != nil {
		t.Errorf("Logout() with invalid token error = %v, want nil", err)
	}
}
