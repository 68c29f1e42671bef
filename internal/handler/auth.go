package handler

import (
	"net/http"

	"boutique/internal/apierror"
	"boutique/internal/dto"
	"boutique/internal/middleware"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Connexion administrateur
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Identifiants"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renouvelle le jeton d'accès
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Jeton de rafraîchissement"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /admin/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Users Handler ────────────────────────────────────────────────────────────

type UsersHandler struct{ svc service.AuthService }

func NewUsersHandler(svc service.AuthService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// Create godoc
// @Summary Crée un compte administrateur
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateAdminRequest true "Compte"
// @Success 201 {object} dto.AdminResponse
// @Failure 409 {object} apierror.APIError
// @Router /admin/users [post]
func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsersHandler) List(c *gin.Context) {
	resp, err := h.svc.ListAdmins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAdminRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateAdmin(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete refuses to remove the caller's own account.
func (h *UsersHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if claims := middleware.GetClaims(c); claims != nil && claims.UserID == id.String() {
		c.JSON(http.StatusBadRequest, apierror.New("Impossible de supprimer votre propre compte"))
		return
	}
	if err := h.svc.DeleteAdmin(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
