// Package integration exposes the client profile projection to
// third-party consumers over a bearer-key-gated endpoint. Its response
// envelope is part of the published contract and differs from the
// console API's.
package integration

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/service/apikey"
	"github.com/jwalitptl/healthrec-api/internal/service/profile"
)

// Response is the integration envelope: {success, data} or
// {success, error}.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Handler struct {
	profiles *profile.Service
	keys     *apikey.Service
}

func NewHandler(profiles *profile.Service, keys *apikey.Service) *Handler {
	return &Handler{profiles: profiles, keys: keys}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients", cors())
	{
		// Preflight requests terminate in the cors middleware.
		clients.OPTIONS("/:id", func(*gin.Context) {})
		clients.GET("/:id", h.requireAPIKey(), h.GetClientProfile)
	}
}

// cors permits browser-based integrations from any origin for reads.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// requireAPIKey gates the group on a Bearer token that verifies against
// an issued, unrevoked key.
func (h *Handler) requireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing or invalid API key",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing or invalid API key",
			})
			return
		}

		key, err := h.keys.Verify(c.Request.Context(), parts[1])
		if err != nil {
			status := http.StatusUnauthorized
			msg := "invalid API key"
			if !apperrors.IsUnauthorized(err) {
				status = http.StatusInternalServerError
				msg = "internal server error"
				log.Error().Err(err).Msg("api key verification failed")
			}
			c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
			return
		}

		c.Set("api_key", key)
		c.Next()
	}
}

func (h *Handler) GetClientProfile(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "client ID is required"})
		return
	}

	clientID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid client ID"})
		return
	}

	p, err := h.profiles.Project(c.Request.Context(), clientID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, Response{Success: false, Error: "client not found"})
			return
		}
		key, _ := c.Get("api_key")
		log.Error().
			Err(err).
			Str("client_id", raw).
			Interface("api_key_id", keyID(key)).
			Msg("profile projection failed")
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: p})
}

func keyID(v interface{}) interface{} {
	if k, ok := v.(*model.APIKey); ok {
		return k.ID
	}
	return nil
}
