// Package efatura contiene catálogos y validaciones del formato UBL-TR (GİB, Türkiye):
// identificadores fiscales VKN/TCKN y unidades de medida.
package efatura

import (
	"fmt"
	"unicode"
)

// Esquemas de identificación fiscal (schemeID en PartyIdentification/ID).
const (
	SchemeVKN  = "VKN"  // Vergi Kimlik Numarası, persona jurídica (10 dígitos)
	SchemeTCKN = "TCKN" // T.C. Kimlik Numarası, persona física (11 dígitos)
)

// ValidateVKN valida los 10 dígitos y el dígito de control del VKN.
func ValidateVKN(vkn string) error {
	digits := extractDigits(vkn)
	if len(digits) != 10 || len(digits) != len(vkn) {
		return fmt.Errorf("efatura: VKN debe tener exactamente 10 dígitos, se recibió %q", vkn)
	}
	expected, err := ComputeVKNCheckDigit(string(digits[:9]))
	if err != nil {
		return err
	}
	if digits[9] != expected {
		return fmt.Errorf("efatura: dígito de control del VKN inválido: esperado %c, recibido %c", expected, digits[9])
	}
	return nil
}

// ComputeVKNCheckDigit calcula el décimo dígito a partir de los 9 primeros.
func ComputeVKNCheckDigit(base string) (byte, error) {
	digits := extractDigits(base)
	if len(digits) != 9 {
		return 0, fmt.Errorf("efatura: se requieren 9 dígitos para calcular el control del VKN, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits {
		pos := i + 1
		v := (int(d-'0') + 10 - pos) % 10
		w := (v * (1 << (10 - pos))) % 9
		if v != 0 && w == 0 {
			w = 9
		}
		sum += w
	}
	return byte('0' + (10-sum%10)%10), nil
}

// ValidateTCKN valida los 11 dígitos y los dos dígitos de control del TCKN.
func ValidateTCKN(tckn string) error {
	digits := extractDigits(tckn)
	if len(digits) != 11 || len(digits) != len(tckn) {
		return fmt.Errorf("efatura: TCKN debe tener exactamente 11 dígitos, se recibió %q", tckn)
	}
	if digits[0] == '0' {
		return fmt.Errorf("efatura: TCKN no puede comenzar con 0")
	}
	n := func(i int) int { return int(digits[i] - '0') }
	odd := n(0) + n(2) + n(4) + n(6) + n(8)
	even := n(1) + n(3) + n(5) + n(7)
	d10 := ((odd*7-even)%10 + 10) % 10
	if n(9) != d10 {
		return fmt.Errorf("efatura: décimo dígito del TCKN inválido: esperado %d, recibido %d", d10, n(9))
	}
	var sum int
	for i := 0; i < 10; i++ {
		sum += n(i)
	}
	if n(10) != sum%10 {
		return fmt.Errorf("efatura: último dígito del TCKN inválido: esperado %d, recibido %d", sum%10, n(10))
	}
	return nil
}

// ValidateTaxID acepta VKN (10) o TCKN (11) y devuelve el esquema detectado.
func ValidateTaxID(id string) (string, error) {
	switch len(id) {
	case 10:
		return SchemeVKN, ValidateVKN(id)
	case 11:
		return SchemeTCKN, ValidateTCKN(id)
	default:
		return "", fmt.Errorf("efatura: identificador fiscal debe tener 10 (VKN) u 11 (TCKN) dígitos, se recibieron %d caracteres", len(id))
	}
}

// LooksLikeTaxID longitud y dígitos plausibles, sin verificar el control.
func LooksLikeTaxID(id string) bool {
	if len(id) != 10 && len(id) != 11 {
		return false
	}
	return len(extractDigits(id)) == len(id)
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
