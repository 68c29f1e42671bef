package handler

import (
	"net/http"

	"boutique/internal/dto"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type PackHandler struct{ svc service.PackService }

func NewPackHandler(svc service.PackService) *PackHandler { return &PackHandler{svc: svc} }

// Create godoc
// @Summary      Crée un pack
// @Description  Tous les produits référencés doivent exister.
// @Tags         pack
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePackRequest true "Pack"
// @Success      201  {object} dto.PackResponse
// @Failure      404  {object} apierror.APIError
// @Router       /admin/pack/new [post]
func (h *PackHandler) Create(c *gin.Context) {
	var req dto.CreatePackRequest
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

func (h *PackHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePackRequest
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

func (h *PackHandler) Get(c *gin.Context) {
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

func (h *PackHandler) GetBySlug(c *gin.Context) {
	resp, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PackHandler) List(c *gin.Context) {
	var filter dto.PackFilter
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

func (h *PackHandler) Delete(c *gin.Context) {
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

func (h *PackHandler) DeleteMany(c *gin.Context) {
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
