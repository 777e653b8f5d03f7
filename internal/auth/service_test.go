package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/chirag847/kisaaan/pkg/auth"
	"github.com/chirag847/kisaaan/pkg/config"
	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byEmail       map[string]*models.User
	byID          map[uuid.UUID]*models.User
	lastLoginAt   *time.Time
	lastLoginUser uuid.UUID
	updates       map[string]any
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	s := &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
	}
	return s
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginUser = id
	s.lastLoginAt = &at
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	u, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		u.Name = name
	}
	if phone, ok := updates["phone"].(string); ok {
		u.Phone = phone
	}
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "login-secret",
		Issuer:            "kisaaan",
		ExpirationMinutes: 30,
	}
}

func TestLoginSuccessMintsClaims(t *testing.T) {
	password := "bumper-crop"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Farmer One",
		Role:         enums.UserRoleFarmer,
	}
	repo := newStubUserRepo(user)
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Farmer@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleFarmer {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if repo.lastLoginUser != user.ID || repo.lastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
	if resp.User.LastLoginAt == nil {
		t.Fatal("expected last login on user DTO")
	}
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.UserRoleBuyer,
	}
	svc, err := NewService(ServiceParams{UserRepo: newStubUserRepo(user), JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "wrong-password",
	})
	assertUnauthorized(t, err)
}

func TestLoginUnknownEmailIsGeneric(t *testing.T) {
	svc, err := NewService(ServiceParams{UserRepo: newStubUserRepo(), JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assertUnauthorized(t, err)
}

func TestUpdateProfileAppliesMutableFields(t *testing.T) {
	user := &models.User{
		ID:    uuid.New(),
		Email: "farmer@example.com",
		Name:  "Before",
		Phone: "1112223333",
		Role:  enums.UserRoleFarmer,
	}
	repo := newStubUserRepo(user)
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	name := "  After  "
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.Name != "After" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if _, ok := repo.updates["email"]; ok {
		t.Fatal("email must never be updated")
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if appErr.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic message, got %q", appErr.Message())
	}
}
