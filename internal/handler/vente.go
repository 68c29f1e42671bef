package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"boutique/internal/dto"
	"boutique/internal/infra"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

type VenteHandler struct {
	svc service.VenteService
	hub *infra.Hub
}

func NewVenteHandler(svc service.VenteService, hub *infra.Hub) *VenteHandler {
	return &VenteHandler{svc: svc, hub: hub}
}

// Create godoc
// @Summary      Enregistre une commande (back-office)
// @Description  Résout le client (nouveau ou existant), les articles et le code promo, calcule les totaux et attribue une référence unique.
// @Tags         vente
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateVenteRequest true "Commande"
// @Success      201  {object} dto.CreateVenteResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /admin/vente/new [post]
func (h *VenteHandler) Create(c *gin.Context) {
	var req dto.CreateVenteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateVente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Commande godoc
// @Summary      Passe une commande (boutique)
// @Description  Articles référencés par slug. Un client existant avec le même email et téléphone est réutilisé.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateCommandeRequest true "Commande"
// @Success      201  {object} dto.VenteResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/commande [post]
func (h *VenteHandler) Commande(c *gin.Context) {
	var req dto.CreateCommandeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCommandeVente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Remplace une commande
// @Description  Recalcule tous les totaux. Si le client change, la commande passe de l'ancien client au nouveau.
// @Tags         vente
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "UUID de la commande"
// @Param        body body     dto.UpdateVenteRequest true "Commande"
// @Success      200  {object} dto.VenteResponse
// @Failure      404  {object} apierror.APIError
// @Router       /admin/vente/update/{id} [put]
func (h *VenteHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateVenteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateVente(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Change le statut d'une commande
// @Tags         vente
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                       true "UUID de la commande"
// @Param        body body     dto.UpdateVenteStatusRequest true "Statut"
// @Success      200  {object} dto.VenteResponse
// @Router       /admin/vente/update-status/{id} [put]
func (h *VenteHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateVenteStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateVenteStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VenteHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetVente(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Liste les commandes
// @Tags         vente
// @Produce      json
// @Security     BearerAuth
// @Param        status   query string false "Statut"
// @Param        clientId query string false "UUID du client"
// @Param        search   query string false "Référence"
// @Param        from     query string false "Date début (YYYY-MM-DD)"
// @Param        to       query string false "Date fin (YYYY-MM-DD)"
// @Param        page     query int    false "Page"
// @Param        limit    query int    false "Taille de page"
// @Success      200  {object} dto.PageResponse[dto.VenteResponse]
// @Router       /admin/vente/get/all [get]
func (h *VenteHandler) List(c *gin.Context) {
	var filter dto.VenteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListVentes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VenteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVente(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *VenteHandler) DeleteMany(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}
	n, err := h.svc.DeleteManyVentes(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteManyResponse{Success: true, Deleted: n})
}

// Export godoc
// @Summary      Exporte les commandes au format Excel
// @Tags         vente
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Router       /admin/vente/export [get]
func (h *VenteHandler) Export(c *gin.Context) {
	var filter dto.VenteFilter
	if !bindQuery(c, &filter) {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportVentes(c.Request.Context(), filter, &buf); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("ventes_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Invoice godoc
// @Summary      Facture PDF d'une commande
// @Tags         vente
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la commande"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /admin/vente/invoice/{id} [get]
func (h *VenteHandler) Invoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	ref, err := h.svc.InvoicePDF(c.Request.Context(), id, &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="facture_%s.pdf"`, ref))
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}

// Live upgrades to the websocket feed of new orders.
func (h *VenteHandler) Live(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
