// Package taxid valida identificaciones tributarias de clientes y proveedores.
package taxid

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del dígito de verificación del NIT colombiano, aplicados de derecha a izquierda.
var nitWeights = []int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// NITCheckDigit calcula el dígito de verificación (módulo 11) de la base del NIT.
func NITCheckDigit(base string) (byte, error) {
	digits := extractDigits(base)
	if len(digits) == 0 || len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("taxid: base de NIT con %d dígitos", len(digits))
	}
	var sum int
	for i := range digits {
		d := digits[len(digits)-1-i]
		sum += int(d-'0') * nitWeights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Validate revisa el identificador según el país. Solo los NIT colombianos escritos
// con dígito de verificación ("900123456-8") se verifican; el resto se acepta tal cual.
func Validate(country, id string) error {
	if !strings.EqualFold(country, "CO") {
		return nil
	}
	base, dv, ok := strings.Cut(strings.TrimSpace(id), "-")
	if !ok || len(dv) != 1 || !isNumeric(base) || !isNumeric(dv) {
		return nil
	}
	expected, err := NITCheckDigit(base)
	if err != nil {
		return err
	}
	if dv[0] != expected {
		return fmt.Errorf("taxid: dígito de verificación del NIT inválido: esperado %c, recibido %s", expected, dv)
	}
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
