package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/healthrec-api/internal/handler"
	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
)

const recentClientsLimit = 5

type Handler struct {
	stats   repository.StatsRepository
	clients repository.ClientRepository
}

func NewHandler(stats repository.StatsRepository, clients repository.ClientRepository) *Handler {
	return &Handler{stats: stats, clients: clients}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.GetDashboard)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	counts, err := h.stats.DashboardCounts(c.Request.Context())
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	recent, err := h.clients.ListRecent(c.Request.Context(), recentClientsLimit)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(&model.Dashboard{
		Counts:        *counts,
		RecentClients: recent,
	}))
}
