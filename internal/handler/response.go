package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/auth"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/ledger"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logic"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/store"
)

// errorStatus maps a domain error to its HTTP status. Business-rule
// rejections and transient storage failures map to distinct classes so
// clients can decide retry eligibility.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, logic.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrForbidden):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSelfBackingNotAllowed),
		errors.Is(err, ledger.ErrCampaignClosed),
		errors.Is(err, ledger.ErrBelowRewardMinimum),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, logic.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}
