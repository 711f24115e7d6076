package api

import (
	"errors"
	"net/http"

	"simplebanking/internal/bank"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusOf maps a domain failure kind to its transport status. The core
// guarantees the kind is always one of the enumerated values.
func statusOf(k bank.Kind) int {
	switch k {
	case bank.KindAccountNotFound:
		return http.StatusNotFound
	case bank.KindForbidden:
		return http.StatusForbidden
	case bank.KindInternal:
		return http.StatusInternalServerError
	default:
		// InvalidAmount, InsufficientFunds, CurrencyMismatch, AlreadyExists
		return http.StatusBadRequest
	}
}

// writeError renders a domain failure. Internal causes are logged here and
// never exposed to the caller.
func writeError(c *gin.Context, err error) {
	var be *bank.Error
	if !errors.As(err, &be) {
		be = bank.Internal(err)
	}
	if be.Kind == bank.KindInternal {
		cause := errors.Unwrap(be)
		if cause == nil {
			cause = be
		}
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": cause.Error(),
		}).Error("Request failed")
	}
	c.JSON(statusOf(be.Kind), gin.H{"error": be.Message})
}
