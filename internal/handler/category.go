package handler

import (
	"net/http"

	"boutique/internal/apierror"
	"boutique/internal/dto"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct{ svc service.CategoryService }

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
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

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
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

func (h *CategoryHandler) Get(c *gin.Context) {
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

func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	resp, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Supprime une catégorie
// @Description  Supprime aussi ses sous-catégories et détache les produits membres.
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la catégorie"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} apierror.APIError
// @Router       /admin/category/delete/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
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

func (h *CategoryHandler) DeleteMany(c *gin.Context) {
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

// Check godoc
// @Summary      Vérifie la cohérence d'une catégorie
// @Description  Liste les produits référencés par la catégorie dont la propre catégorie diffère.
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la catégorie"
// @Success      200 {object} dto.CategoryConsistencyResponse
// @Router       /admin/category/check/{id} [get]
func (h *CategoryHandler) Check(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CheckConsistency(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── SubCategory Handler ──────────────────────────────────────────────────────

type SubCategoryHandler struct{ svc service.SubCategoryService }

func NewSubCategoryHandler(svc service.SubCategoryService) *SubCategoryHandler {
	return &SubCategoryHandler{svc: svc}
}

func (h *SubCategoryHandler) Create(c *gin.Context) {
	var req dto.SubCategoryRequest
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

func (h *SubCategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSubCategoryRequest
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

func (h *SubCategoryHandler) Get(c *gin.Context) {
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

// List accepts an optional ?categoryId= filter.
func (h *SubCategoryHandler) List(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("categoryId invalide"))
			return
		}
		categoryID = &id
	}
	resp, err := h.svc.List(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SubCategoryHandler) Delete(c *gin.Context) {
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

func (h *SubCategoryHandler) DeleteMany(c *gin.Context) {
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
