package efatura

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/efatura-api/internal/domain"
)

// ETTN: UUID canónico 8-4-4-4-12. uuid.Parse también acepta "urn:uuid:" y llaves, por eso el patrón.
var uuidShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// NormalizeUUID valida la forma canónica y devuelve el UUID en mayúsculas.
func NormalizeUUID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &domain.ValidationError{Field: "uuid", Message: "requerido"}
	}
	if !uuidShape.MatchString(s) {
		return "", &domain.ValidationError{Field: "uuid", Value: raw, Message: "formato inválido (se espera 8-4-4-4-12 hexadecimal)"}
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", &domain.ValidationError{Field: "uuid", Value: raw, Message: err.Error()}
	}
	return strings.ToUpper(s), nil
}

// ValidateDateRange exige ambos extremos y from <= to.
func ValidateDateRange(from, to time.Time) error {
	if from.IsZero() {
		return &domain.ValidationError{Field: "from", Message: "requerido"}
	}
	if to.IsZero() {
		return &domain.ValidationError{Field: "to", Message: "requerido"}
	}
	if to.Before(from) {
		return &domain.ValidationError{
			Field:   "to",
			Value:   to.Format(time.DateOnly),
			Message: "debe ser posterior o igual a from (" + from.Format(time.DateOnly) + ")",
		}
	}
	return nil
}
