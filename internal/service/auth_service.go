package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boutique/internal/config"
	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Token kinds carried in the "kind" claim.
const (
	TokenAdmin        = "admin"
	TokenAdminRefresh = "admin_refresh"
	TokenClient       = "client"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateAdmin(ctx context.Context, req dto.CreateAdminRequest) (*dto.AdminResponse, error)
	ListAdmins(ctx context.Context) ([]dto.AdminResponse, error)
	UpdateAdmin(ctx context.Context, id uuid.UUID, req dto.UpdateAdminRequest) (*dto.AdminResponse, error)
	DeleteAdmin(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.AdminRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.AdminRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil || !admin.Active {
		return nil, fmt.Errorf("identifiants invalides: %w", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("identifiants invalides: %w", ErrUnauthorized)
	}
	return s.tokens(admin)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := parseToken(s.cfg.JWTSecret, refreshToken)
	if err != nil || claims["kind"] != TokenAdminRefresh {
		return nil, fmt.Errorf("refresh token invalide ou expiré: %w", ErrUnauthorized)
	}
	idStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("token mal formé: %w", ErrUnauthorized)
	}

	admin, err := s.repo.FindByID(ctx, uid)
	if err != nil || !admin.Active {
		return nil, fmt.Errorf("utilisateur introuvable ou inactif: %w", ErrUnauthorized)
	}
	return s.tokens(admin)
}

func (s *authService) CreateAdmin(ctx context.Context, req dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("l'utilisateur %s existe déjà: %w", req.Username, ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Username:     req.Username,
		Nom:          req.Nom,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return adminToResponse(admin), nil
}

func (s *authService) ListAdmins(ctx context.Context) ([]dto.AdminResponse, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AdminResponse, len(admins))
	for i := range admins {
		resp[i] = *adminToResponse(&admins[i])
	}
	return resp, nil
}

func (s *authService) UpdateAdmin(ctx context.Context, id uuid.UUID, req dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "utilisateur %s introuvable", id)
	}
	if req.Nom != "" {
		admin.Nom = req.Nom
	}
	if req.Email != nil {
		admin.Email = req.Email
	}
	if req.Role != "" {
		admin.Role = req.Role
	}
	if req.Active != nil {
		admin.Active = *req.Active
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return adminToResponse(admin), nil
}

func (s *authService) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "utilisateur %s introuvable", id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *authService) tokens(admin *model.Admin) (*dto.LoginResponse, error) {
	access, err := signToken(s.cfg.JWTSecret, jwt.MapClaims{
		"user_id":  admin.ID.String(),
		"username": admin.Username,
		"role":     admin.Role,
		"kind":     TokenAdmin,
	}, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(s.cfg.JWTSecret, jwt.MapClaims{
		"user_id": admin.ID.String(),
		"kind":    TokenAdminRefresh,
	}, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *adminToResponse(admin),
	}, nil
}

func adminToResponse(a *model.Admin) *dto.AdminResponse {
	return &dto.AdminResponse{
		ID: a.ID.String(), Username: a.Username, Nom: a.Nom,
		Email: a.Email, Role: a.Role, Active: a.Active,
	}
}

// signToken signs claims with HS256, adding iat and exp.
func signToken(secret string, claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}
