package web

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"bitbucket.org/sportshop/storefront/internal/account"
	"bitbucket.org/sportshop/storefront/internal/cart"
	"bitbucket.org/sportshop/storefront/internal/catalog"
	"bitbucket.org/sportshop/storefront/internal/checkout"
	"bitbucket.org/sportshop/storefront/internal/notifications"
	"bitbucket.org/sportshop/storefront/internal/postal"
	"bitbucket.org/sportshop/storefront/internal/pricing"
	"bitbucket.org/sportshop/storefront/internal/settings"
	"bitbucket.org/sportshop/storefront/internal/validation"
	"bitbucket.org/sportshop/storefront/internal/verification"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Message string                  `json:"message"`
	Error   string                  `json:"error,omitempty"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// HandleError aborts the request with a JSON error body and logs it.
func HandleError(c *gin.Context, status int, message string, err error) {
	logger := requestLogger(c)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}

	event.
		Err(err).
		Str("label", "error").
		Int("code", status).
		Msg(message)

	response := errorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}

	var formError *validation.FormError
	if errors.As(err, &formError) {
		response.Fields = formError.Fields
	}

	c.AbortWithStatusJSON(status, response)
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{account.ErrNotLoggedIn, http.StatusUnauthorized},
	{account.ErrInvalidCredentials, http.StatusUnauthorized},
	{account.ErrWrongPassword, http.StatusForbidden},
	{account.ErrEmailTaken, http.StatusConflict},
	{account.ErrUserNotFound, http.StatusNotFound},
	{account.ErrUnknownField, http.StatusNotFound},
	{account.ErrEmptyValue, http.StatusUnprocessableEntity},
	{account.ErrInvalidValue, http.StatusUnprocessableEntity},
	{postal.ErrInvalidPostalCode, http.StatusUnprocessableEntity},
	{postal.ErrNotFound, http.StatusNotFound},
	{postal.ErrLookupFailed, http.StatusServiceUnavailable},
	{cart.ErrEmptyCart, http.StatusConflict},
	{cart.ErrInvalidQuantity, http.StatusUnprocessableEntity},
	{cart.ErrInvalidInstallments, http.StatusUnprocessableEntity},
	{cart.ErrInvalidSize, http.StatusUnprocessableEntity},
	{cart.ErrLineNotFound, http.StatusNotFound},
	{verification.ErrResendCooldown, http.StatusTooManyRequests},
	{verification.ErrNoChallenge, http.StatusConflict},
	{verification.ErrUnknownChannel, http.StatusNotFound},
	{notifications.ErrNotFound, http.StatusNotFound},
	{settings.ErrInvalidTheme, http.StatusUnprocessableEntity},
	{checkout.ErrInvalidToken, http.StatusUnauthorized},
	{pricing.ErrNegativePrice, http.StatusUnprocessableEntity},
	{pricing.ErrInvalidCount, http.StatusUnprocessableEntity},
	{catalog.ErrUnknownSort, http.StatusBadRequest},
}

// statusFor maps a domain error to its HTTP status, 500 when unknown.
func statusFor(err error) int {
	var formError *validation.FormError
	if errors.As(err, &formError) {
		return http.StatusUnprocessableEntity
	}

	for _, entry := range errorStatuses {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}

	return http.StatusInternalServerError
}

// respondError replies with the status of err.
func respondError(c *gin.Context, message string, err error) {
	var cooldown *verification.CooldownError
	if errors.As(err, &cooldown) {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(cooldown.Remaining.Seconds()))))
	}

	HandleError(c, statusFor(err), message, err)
}
