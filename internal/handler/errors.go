package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-platform/internal/response"
)

// failInternal logs an unexpected error with request context and answers
// with the generic 500 body. Details never reach the client.
func failInternal(c *gin.Context, err error, msg string) {
	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("path", c.FullPath()).
		Msg(msg)
	_ = c.Error(err)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
