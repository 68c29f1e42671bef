package service

import (
	"context"
	"testing"
	"time"

	"boutique/internal/config"
	"boutique/internal/dto"
	"boutique/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubAdminRepo struct {
	admins map[string]*model.Admin
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[string]*model.Admin)}
}

func (r *stubAdminRepo) Create(_ context.Context, a *model.Admin) error {
	a.ID = uuid.New()
	r.admins[a.Username] = a
	return nil
}

func (r *stubAdminRepo) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	a, ok := r.admins[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Admin, error) {
	for _, a := range r.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAdminRepo) List(_ context.Context) ([]model.Admin, error) {
	out := make([]model.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAdminRepo) Update(_ context.Context, a *model.Admin) error {
	r.admins[a.Username] = a
	return nil
}

func (r *stubAdminRepo) Delete(_ context.Context, id uuid.UUID) error {
	for name, a := range r.admins {
		if a.ID == id {
			delete(r.admins, name)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedAdmin(t *testing.T, repo *stubAdminRepo, username, password, role string) *model.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	a := &model.Admin{
		ID: uuid.New(), Username: username, Nom: "Test Admin",
		PasswordHash: string(hash), Role: role, Active: true,
	}
	repo.admins[username] = a
	return a
}

func claimsOf(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	claims, err := parseToken(testSecret, raw)
	require.NoError(t, err)
	return claims
}

// ── Tests: Login ──────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	repo := newStubAdminRepo()
	a := seedAdmin(t, repo, "admin", "password123", "admin")
	svc := NewAuthService(repo, newTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Role)

	access := claimsOf(t, resp.AccessToken)
	assert.Equal(t, TokenAdmin, access["kind"])
	assert.Equal(t, a.ID.String(), access["user_id"])
	assert.Equal(t, "admin", access["role"])
	assert.Equal(t, TokenAdminRefresh, claimsOf(t, resp.RefreshToken)["kind"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newStubAdminRepo()
	seedAdmin(t, repo, "manager1", "correctpass", "manager")
	svc := NewAuthService(repo, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager1", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_UnknownOrInactive(t *testing.T) {
	repo := newStubAdminRepo()
	a := seedAdmin(t, repo, "parti", "password123", "manager")
	a.Active = false
	svc := NewAuthService(repo, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "inconnu", Password: "password123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "parti", Password: "password123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── Tests: Refresh ────────────────────────────────────────────────────────────

func TestRefresh_Success(t *testing.T) {
	repo := newStubAdminRepo()
	a := seedAdmin(t, repo, "manager2", "pass12345", "manager")
	svc := NewAuthService(repo, newTestCfg())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager2", Password: "pass12345"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, a.Username, resp.User.Username)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	repo := newStubAdminRepo()
	seedAdmin(t, repo, "admin", "password123", "admin")
	svc := NewAuthService(repo, newTestCfg())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_InvalidOrExpired(t *testing.T) {
	repo := newStubAdminRepo()
	a := seedAdmin(t, repo, "admin", "password123", "admin")
	svc := NewAuthService(repo, newTestCfg())

	_, err := svc.Refresh(context.Background(), "this.is.garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired, err := signToken(testSecret, jwt.MapClaims{"user_id": a.ID.String(), "kind": TokenAdminRefresh}, -time.Second)
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), expired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── Tests: Admin CRUD ─────────────────────────────────────────────────────────

func TestCreateAdmin(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewAuthService(repo, newTestCfg())

	resp, err := svc.CreateAdmin(context.Background(), dto.CreateAdminRequest{
		Username: "nouveau", Nom: "Nouvel Admin", Password: "securepass", Role: "manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "manager", resp.Role)
	assert.True(t, resp.Active)
	assert.NotEqual(t, "securepass", repo.admins["nouveau"].PasswordHash)

	_, err = svc.CreateAdmin(context.Background(), dto.CreateAdminRequest{
		Username: "nouveau", Nom: "Doublon", Password: "securepass", Role: "admin",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateAdmin_ChangesPassword(t *testing.T) {
	repo := newStubAdminRepo()
	a := seedAdmin(t, repo, "admin", "password123", "admin")
	svc := NewAuthService(repo, newTestCfg())

	_, err := svc.UpdateAdmin(context.Background(), a.ID, dto.UpdateAdminRequest{Password: "nouveaumotdepasse"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "nouveaumotdepasse"})
	assert.NoError(t, err)
}

func TestListAndDeleteAdmins(t *testing.T) {
	repo := newStubAdminRepo()
	seedAdmin(t, repo, "u1", "pass1234", "admin")
	u2 := seedAdmin(t, repo, "u2", "pass1234", "manager")
	svc := NewAuthService(repo, newTestCfg())

	admins, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	require.NoError(t, svc.DeleteAdmin(context.Background(), u2.ID))
	assert.ErrorIs(t, svc.DeleteAdmin(context.Background(), u2.ID), ErrNotFound)
}
