package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrForbidden    = errors.New("acceso denegado")

	// Integración con el proveedor de e-Fatura.
	ErrAuthentication    = errors.New("el proveedor rechazó las credenciales o la sesión")
	ErrNetwork           = errors.New("error de red con el proveedor")
	ErrMalformedResponse = errors.New("respuesta malformada del proveedor")
	ErrParse             = errors.New("documento UBL no interpretable")
	ErrValidation        = errors.New("validación fallida")
	ErrProviderFault     = errors.New("el proveedor rechazó la operación")
	ErrNoProviderAccount = errors.New("la empresa no tiene cuenta de proveedor configurada")
)

// NetworkError fallo de transporte o respuesta HTTP no exitosa sin SOAP Fault.
// StatusCode es 0 cuando no hubo respuesta (timeout, DNS, conexión rechazada).
type NetworkError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("red: %s: HTTP %d", e.Operation, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("red: %s: %v", e.Operation, e.Err)
	}
	return "red: " + e.Operation
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrNetwork).
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ValidationError entrada rechazada antes de cualquier llamada remota.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validación: %s=%q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ParseError el documento se decodificó pero su contenido no se pudo interpretar.
type ParseError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := "parse"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
