package handler

import (
	"net/http"

	"boutique/internal/dto"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Blog ─────────────────────────────────────────────────────────────────────

type BlogHandler struct{ svc service.BlogService }

func NewBlogHandler(svc service.BlogService) *BlogHandler { return &BlogHandler{svc: svc} }

func (h *BlogHandler) Create(c *gin.Context) {
	var req dto.BlogRequest
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

func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BlogRequest
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

func (h *BlogHandler) Get(c *gin.Context) {
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

// List returns every post to the back-office.
func (h *BlogHandler) List(c *gin.Context) { h.list(c, false) }

// Published returns the posts visible on the storefront.
func (h *BlogHandler) Published(c *gin.Context) { h.list(c, true) }

func (h *BlogHandler) list(c *gin.Context, publishedOnly bool) {
	resp, err := h.svc.List(c.Request.Context(), publishedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) GetBySlug(c *gin.Context) {
	resp, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) Delete(c *gin.Context) {
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

func (h *BlogHandler) DeleteMany(c *gin.Context) {
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

// ── Page ─────────────────────────────────────────────────────────────────────

type PageHandler struct{ svc service.PageService }

func NewPageHandler(svc service.PageService) *PageHandler { return &PageHandler{svc: svc} }

func (h *PageHandler) Create(c *gin.Context) {
	var req dto.PageRequest
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

func (h *PageHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PageRequest
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

func (h *PageHandler) Get(c *gin.Context) {
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

func (h *PageHandler) GetBySlug(c *gin.Context) {
	resp, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PageHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PageHandler) Delete(c *gin.Context) {
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

func (h *PageHandler) DeleteMany(c *gin.Context) {
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

// ── Messages ─────────────────────────────────────────────────────────────────

type MessageHandler struct{ svc service.MessageService }

func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Create godoc
// @Summary      Formulaire de contact
// @Description  Le message est enregistré puis transmis par email à l'adresse de la boutique.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        body body dto.MessageRequest true "Message"
// @Success      201 {object} dto.MessageResponse
// @Router       /api/messages [post]
func (h *MessageHandler) Create(c *gin.Context) {
	var req dto.MessageRequest
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

// List accepts ?unread=true.
func (h *MessageHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *MessageHandler) Delete(c *gin.Context) {
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

// SendSMS godoc
// @Summary      Envoie un SMS à un client
// @Description  Le SMS est mis en file d'attente; la réponse n'attend pas la passerelle.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SendSMSRequest true "SMS"
// @Success      202 {object} dto.SuccessResponse
// @Router       /admin/messages/sms [post]
func (h *MessageHandler) SendSMS(c *gin.Context) {
	var req dto.SendSMSRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SendSMS(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.SuccessResponse{Success: true, Message: "SMS en file d'attente"})
}
