package handler

import (
	"net/http"

	"boutique/internal/dto"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type PromoCodeHandler struct{ svc service.PromoCodeService }

func NewPromoCodeHandler(svc service.PromoCodeService) *PromoCodeHandler {
	return &PromoCodeHandler{svc: svc}
}

func (h *PromoCodeHandler) Create(c *gin.Context) {
	var req dto.CreatePromoCodeRequest
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

func (h *PromoCodeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePromoCodeRequest
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

func (h *PromoCodeHandler) Get(c *gin.Context) {
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

func (h *PromoCodeHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PromoCodeHandler) Delete(c *gin.Context) {
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

func (h *PromoCodeHandler) DeleteMany(c *gin.Context) {
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

// Validate godoc
// @Summary      Valide un code promo
// @Description  valid=true si le code est actif ou si sa date de fin n'est pas passée.
// @Tags         promo-code
// @Produce      json
// @Param        code path string true "Code"
// @Success      200 {object} dto.PromoValidationResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/promo-code/validate/{code} [get]
func (h *PromoCodeHandler) Validate(c *gin.Context) {
	resp, err := h.svc.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
