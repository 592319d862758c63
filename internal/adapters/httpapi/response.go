package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"snapgram/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error!"

// respond writes the {success, message, ...fields} envelope every endpoint answers with.
func respond(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"success": status < http.StatusBadRequest, "message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError internal errors are logged and never shown to the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("❌ request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		respond(c, status, internalErrorMessage, nil)
		return
	}
	respond(c, status, apperr.Message(err, err.Error()), nil)
}

func badInput(c *gin.Context) {
	respond(c, http.StatusBadRequest, "invalid input", nil)
}

// currentUserID set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// formFile opens the optional upload in field. A missing file or a body that is not multipart
// gives a nil file. When the upload cannot be read the response is written and ok is false.
func formFile(c *gin.Context, logger *zap.Logger, field string) (f multipart.File, ok bool) {
	fh, err := c.FormFile(field)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	case errors.As(err, &tooLarge):
		respond(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit), nil)
		return nil, false
	case err != nil:
		badInput(c)
		return nil, false
	}

	f, err = fh.Open()
	if err != nil {
		respondError(c, logger, fmt.Errorf("open upload: %w", err))
		return nil, false
	}
	return f, true
}
