package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/efatura-api/internal/application/dto"
	"github.com/jhoicas/efatura-api/internal/domain"
)

// writeError traduce errores de dominio a HTTP. El orden importa: un ValidationError
// también puede envolver otros errores.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrParse):
		return fiber.StatusUnprocessableEntity, "PARSE_ERROR"
	case errors.Is(err, domain.ErrNoProviderAccount):
		return fiber.StatusPreconditionFailed, "NO_PROVIDER_ACCOUNT"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrAuthentication):
		return fiber.StatusBadGateway, "PROVIDER_AUTH"
	case errors.Is(err, domain.ErrNetwork):
		return fiber.StatusGatewayTimeout, "PROVIDER_UNAVAILABLE"
	case errors.Is(err, domain.ErrMalformedResponse):
		return fiber.StatusBadGateway, "MALFORMED_RESPONSE"
	case errors.Is(err, domain.ErrProviderFault):
		return fiber.StatusBadGateway, "PROVIDER_FAULT"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
