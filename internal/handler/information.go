package handler

import (
	"net/http"

	"boutique/internal/dto"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type InformationHandler struct{ svc service.InformationService }

func NewInformationHandler(svc service.InformationService) *InformationHandler {
	return &InformationHandler{svc: svc}
}

// Get godoc
// @Summary      Paramètres de la boutique
// @Tags         information
// @Produce      json
// @Success      200 {object} dto.InformationResponse
// @Router       /api/information [get]
func (h *InformationHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Modifie les paramètres de la boutique
// @Description  TVA, timbre et livraison s'appliquent aux commandes créées ensuite.
// @Tags         information
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpdateInformationRequest true "Paramètres"
// @Success      200 {object} dto.InformationResponse
// @Router       /admin/information/update [put]
func (h *InformationHandler) Update(c *gin.Context) {
	var req dto.UpdateInformationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Analytics ────────────────────────────────────────────────────────────────

type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Tableau de bord des ventes
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "Date début (YYYY-MM-DD)"
// @Param        to   query string false "Date fin (YYYY-MM-DD)"
// @Success      200 {object} dto.DashboardResponse
// @Router       /admin/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	var filter dto.DashboardFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
