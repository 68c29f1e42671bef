package handler

import (
	"net/http"

	"boutique/internal/dto"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct{ svc service.ProductService }

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create godoc
// @Summary      Crée un produit
// @Description  Le produit est ajouté aux listes de sa catégorie et sous-catégorie dans la même transaction.
// @Tags         product
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Produit"
// @Success      201  {object} dto.ProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /admin/product/new [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
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

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
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

func (h *ProductHandler) Get(c *gin.Context) {
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

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	resp, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      Liste les produits
// @Tags         product
// @Produce      json
// @Param        category    query string false "UUID de catégorie"
// @Param        subCategory query string false "UUID de sous-catégorie"
// @Param        feature     query string false "meilleur-vente | nouveau | vente-flash | promo"
// @Param        search      query string false "Recherche"
// @Param        inStock     query bool   false "En stock"
// @Success      200  {object} dto.PageResponse[dto.ProductResponse]
// @Router       /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
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

func (h *ProductHandler) Delete(c *gin.Context) {
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

func (h *ProductHandler) DeleteMany(c *gin.Context) {
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
