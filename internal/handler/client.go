package handler

import (
	"net/http"

	"boutique/internal/dto"
	"boutique/internal/middleware"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	svc    service.ClientService
	ventes service.VenteService
}

func NewClientHandler(svc service.ClientService, ventes service.VenteService) *ClientHandler {
	return &ClientHandler{svc: svc, ventes: ventes}
}

// ── Back-office ──────────────────────────────────────────────────────────────

func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientInput
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) List(c *gin.Context) {
	var filter dto.ClientFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Supprime un client
// @Description  Les commandes du client sont conservées.
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID du client"
// @Success      200 {object} dto.SuccessResponse
// @Router       /admin/client/delete/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *ClientHandler) DeleteMany(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.svc.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteManyResponse{Success: true, Deleted: n})
}

// ── Storefront ───────────────────────────────────────────────────────────────

// Register godoc
// @Summary      Crée un compte client
// @Description  Un client invité avec le même email et téléphone devient un compte.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        body body dto.RegisterClientRequest true "Compte"
// @Success      201 {object} dto.ClientLoginResponse
// @Failure      409 {object} apierror.APIError
// @Router       /api/client/register [post]
func (h *ClientHandler) Register(c *gin.Context) {
	var req dto.RegisterClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientHandler) Login(c *gin.Context) {
	var req dto.ClientLoginRequest
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

func (h *ClientHandler) Me(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateMe lets customers edit their contact fields, never the active flag.
func (h *ClientHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.Active = nil
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetClientID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) Orders(c *gin.Context) {
	resp, err := h.ventes.ListClientVentes(c.Request.Context(), middleware.GetClientID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetCartItem godoc
// @Summary      Ajoute ou met à jour une ligne du panier
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Security     ClientAuth
// @Param        body body dto.CartItemRequest true "Ligne"
// @Success      200 {object} dto.ClientResponse
// @Router       /api/client/cart [put]
func (h *ClientHandler) SetCartItem(c *gin.Context) {
	var req dto.CartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetCartItem(c.Request.Context(), middleware.GetClientID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) RemoveCartItem(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveCartItem(c.Request.Context(), middleware.GetClientID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientHandler) ToggleWishlist(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.svc.ToggleWishlist(c.Request.Context(), middleware.GetClientID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
