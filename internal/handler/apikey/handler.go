package apikey

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/healthrec-api/internal/handler"
	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/service/apikey"
)

type Handler struct {
	service *apikey.Service
}

func NewHandler(service *apikey.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	keys := r.Group("/api-keys")
	{
		keys.POST("", h.CreateKey)
		keys.GET("", h.ListKeys)
		keys.DELETE("/:id", h.RevokeKey)
	}
}

func (h *Handler) CreateKey(c *gin.Context) {
	actor, _ := handler.CurrentUser(c)

	var req model.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req, actor)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListKeys(c *gin.Context) {
	actor, _ := handler.CurrentUser(c)

	keys, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(keys))
}

func (h *Handler) RevokeKey(c *gin.Context) {
	actor, _ := handler.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid key ID"))
		return
	}

	if err := h.service.Revoke(c.Request.Context(), id, actor); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"revoked": true}))
}
