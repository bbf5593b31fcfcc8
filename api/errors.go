package api

import (
	"errors"
	"net/http"

	"github.com/warp/cashflow-engine/factory"
	"github.com/warp/cashflow-engine/store"
)

// IsClientError reports whether err was caused by the request content.
func IsClientError(err error) bool {
	return errors.Is(err, factory.ErrInvalidScenario)
}

// IsNotFound reports whether err names a scenario or run that does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrScenarioNotFound) || errors.Is(err, store.ErrRunNotFound)
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case IsClientError(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
