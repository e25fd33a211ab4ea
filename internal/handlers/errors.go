package handlers

import (
	"errors"
	"net/http"

	"quoting-service/internal/services"
	"quoting-service/utils"

	"github.com/gofiber/fiber/v3"
)

// respondServiceError maps service sentinels to API error envelopes.
// Everything unrecognized is a 500 with a generic message; the wrapped detail
// stays in the logs.
func respondServiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("SESSION_NOT_FOUND", "Session not found"))
	case errors.Is(err, services.ErrCoverageNotFound):
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("COVERAGE_NOT_FOUND", "Coverage not found"))
	case errors.Is(err, services.ErrBeneficiaryNotFound):
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("BENEFICIARY_NOT_FOUND", "Beneficiary not found"))
	case errors.Is(err, services.ErrUnknownProvider):
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("UNKNOWN_PROVIDER", "Unknown widget provider"))
	case errors.Is(err, services.ErrStepGated):
		return c.Status(http.StatusUnprocessableEntity).JSON(
			utils.CreateErrorResponse("STEP_GATED", "Current step has unresolved validation errors"))
	case errors.Is(err, services.ErrNoOffer):
		return c.Status(http.StatusConflict).JSON(
			utils.CreateErrorResponse("NO_OFFER", "No coverages available for this profile"))
	case errors.Is(err, services.ErrPaymentMethodUnset):
		return c.Status(http.StatusUnprocessableEntity).JSON(
			utils.CreateErrorResponse("PAYMENT_METHOD_UNSET", "Payment method not selected"))
	case errors.Is(err, services.ErrDebitUnavailable):
		return c.Status(http.StatusUnprocessableEntity).JSON(
			utils.CreateErrorResponse("DEBIT_UNAVAILABLE", "Debit payment is not available yet"))
	case errors.Is(err, services.ErrMissingPreAuth):
		return c.Status(http.StatusUnprocessableEntity).JSON(
			utils.CreateErrorResponse("MISSING_PRE_AUTH", "Payment pre-authorization is missing"))
	default:
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("INTERNAL_ERROR", "An unexpected error occurred"))
	}
}
