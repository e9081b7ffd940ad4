package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/id"
)

// ParseVisitorRequestID reads a vr_-prefixed id from a URL path parameter.
func ParseVisitorRequestID(c *gin.Context, paramName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError("visitor request ID is required")
	}

	if err := id.ValidateVisitorRequestID(sid); err != nil {
		return "", errors.NewValidationError("invalid visitor request ID format, expected " + id.PrefixVisitorRequest + "_xxxxx")
	}

	return sid, nil
}
