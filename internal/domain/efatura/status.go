// Package efatura contiene las reglas de dominio de la integración e-Fatura (Türkiye):
// mapeo de códigos de estado del proveedor al estado canónico, fusión monótona de
// estados y validación de identificadores.
package efatura

import (
	"fmt"
	"time"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

// Códigos de estado de transferencia del proveedor (StateCode).
const (
	StateUnknown    = 0
	StateDraft      = 1
	StateQueued     = 2
	StateProcessing = 3
	StateFailed     = 4
	StateDelivered  = 5
)

// Códigos de respuesta comercial (AnswerTypeCode).
const (
	AnswerCodeReturned = 3
	AnswerCodeRejected = 4
	AnswerCodeAccepted = 5
)

// MapStateCode traduce StateCode a Lifecycle. Códigos fuera de 0–5 son error, nunca se asumen.
func MapStateCode(code int) (entity.Lifecycle, error) {
	switch code {
	case StateUnknown, StateDraft:
		return entity.LifecycleDraft, nil
	case StateQueued:
		return entity.LifecycleQueued, nil
	case StateProcessing:
		return entity.LifecycleProcessing, nil
	case StateFailed:
		return entity.LifecycleFailed, nil
	case StateDelivered:
		return entity.LifecycleDelivered, nil
	default:
		return "", fmt.Errorf("%w: StateCode desconocido %d", domain.ErrMalformedResponse, code)
	}
}

// MapAnswerCode traduce AnswerTypeCode a Answer. nil o desconocido → NONE.
func MapAnswerCode(code *int) entity.Answer {
	if code == nil {
		return entity.AnswerNone
	}
	switch *code {
	case AnswerCodeAccepted:
		return entity.AnswerAccepted
	case AnswerCodeRejected:
		return entity.AnswerRejected
	case AnswerCodeReturned:
		return entity.AnswerReturned
	default:
		return entity.AnswerNone
	}
}

// AnswerCode inverso de MapAnswerCode para enviar respuestas al proveedor.
func AnswerCode(a entity.Answer) (string, error) {
	switch a {
	case entity.AnswerAccepted:
		return "KABUL", nil
	case entity.AnswerRejected:
		return "RED", nil
	case entity.AnswerReturned:
		return "IADE", nil
	default:
		return "", &domain.ValidationError{Field: "answer", Value: string(a), Message: "debe ser ACCEPTED, REJECTED o RETURNED"}
	}
}

// ToCanonical construye el estado canónico a partir de la respuesta del proveedor.
// La respuesta comercial solo se conserva cuando el documento fue entregado.
func ToCanonical(ts *entity.TransferStatus, checkedAt time.Time) (entity.CanonicalStatus, error) {
	if ts == nil {
		return entity.CanonicalStatus{}, fmt.Errorf("%w: estado vacío", domain.ErrMalformedResponse)
	}
	lc, err := MapStateCode(ts.StateCode)
	if err != nil {
		return entity.CanonicalStatus{}, err
	}
	answer := entity.AnswerNone
	if lc == entity.LifecycleDelivered {
		answer = MapAnswerCode(ts.AnswerTypeCode)
	}
	return entity.CanonicalStatus{
		Lifecycle:         lc,
		Answer:            answer,
		ProviderStateCode: ts.StateCode,
		LastCheckedAt:     checkedAt,
	}, nil
}

// rank orden del camino feliz. FAILED comparte rango con DELIVERED: ambos terminales.
func rank(l entity.Lifecycle) int {
	switch l {
	case entity.LifecycleDraft:
		return 0
	case entity.LifecycleQueued:
		return 1
	case entity.LifecycleProcessing:
		return 2
	case entity.LifecycleDelivered, entity.LifecycleFailed:
		return 3
	default:
		return -1
	}
}

// Merge fusiona el estado recibido con el almacenado. Devuelve el estado resultante y si
// el recibido fue aplicado (y por tanto debe persistirse).
//
// Reglas:
//   - sin estado previo o force: se aplica el recibido;
//   - un sondeo más antiguo que el almacenado nunca lo sobrescribe;
//   - desde un estado terminal solo se acepta el mismo estado (refresco) o, en DELIVERED,
//     el paso de NONE a una respuesta comercial;
//   - desde un estado no terminal se acepta FAILED o cualquier avance; los retrocesos se ignoran.
func Merge(current *entity.CanonicalStatus, incoming entity.CanonicalStatus, force bool) (entity.CanonicalStatus, bool) {
	if current == nil || force {
		return incoming, true
	}
	if !current.LastCheckedAt.IsZero() && incoming.LastCheckedAt.Before(current.LastCheckedAt) {
		return *current, false
	}

	if current.Lifecycle.IsTerminal() {
		if incoming.Lifecycle != current.Lifecycle {
			return *current, false
		}
		if incoming.Answer == current.Answer {
			return incoming, true
		}
		if current.Answer == entity.AnswerNone {
			return incoming, true
		}
		return *current, false
	}

	if incoming.Lifecycle == entity.LifecycleFailed || rank(incoming.Lifecycle) >= rank(current.Lifecycle) {
		return incoming, true
	}
	return *current, false
}
