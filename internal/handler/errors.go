package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WriteError converts a service error to the API envelope. AppError
// codes map to their HTTP statuses; anything else is a 500 with a
// generic message, with the cause logged rather than leaked.
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if sc, ok := err.(interface{ StatusCode() int }); ok {
		status = sc.StatusCode()
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
		message = "internal server error"
	}

	c.JSON(status, NewErrorResponse(message))
}
