package handler

import (
	"errors"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"

	"github.com/gin-gonic/gin"
)

// respondError writes err as an ErrorResponse with the status of its kind.
// Unclassified errors are reported without their internals.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	message := "Internal server error"

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Error()
	}

	c.AbortWithStatusJSON(kind.Status(), model.ErrorResponse{
		Error: message,
		Kind:  kind.String(),
		Code:  kind.Status(),
	})
}
