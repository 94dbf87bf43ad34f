// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"grocery/internal/modules/location"
	"grocery/internal/modules/order"
	"grocery/internal/modules/pricing"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts UUIDs and short slugs.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrBadRequest), errors.Is(err, order.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, location.ErrNotFound), errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidState), errors.Is(err, order.ErrConflict), errors.Is(err, order.ErrPriceChanged):
		writeError(c, http.StatusConflict, err.Error())
	case pricing.IsAdvisory(err):
		writeError(c, http.StatusUnprocessableEntity, advisoryMessage(err))
	case errors.Is(err, pricing.ErrConfigMissing), errors.Is(err, pricing.ErrNoSessions):
		_ = c.Error(err)
		writeError(c, http.StatusServiceUnavailable, "pricing is not configured")
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// advisoryMessage is what the shopper sees for a discount code that was not
// applied.
func advisoryMessage(err error) string {
	var invalid *pricing.InvalidCodeError
	switch {
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, pricing.ErrDiscountsDisabled):
		return pricing.ErrDiscountsDisabled.Error()
	case errors.Is(err, pricing.ErrReferralUnavailable):
		return "could not check the referral code, please try again later"
	}
	return err.Error()
}
