package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Add appends a non-nil field error.
func (e Errs) Add(ef *ErrField) Errs {
	if ef == nil {
		return e
	}
	return append(e, *ef)
}

// Err returns nil when no field failed, so callers can `return errs.Err()`.
func (e Errs) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

func Digits(field, value string, minLen int) *ErrField {
	if !digitsRe.MatchString(value) {
		return &ErrField{Field: field, Msg: "must contain digits only"}
	}
	if len(value) < minLen {
		return &ErrField{Field: field, Msg: "too short"}
	}
	return nil
}

func PositiveDecimal(field string, v decimal.Decimal) *ErrField {
	if !v.IsPositive() {
		return &ErrField{Field: field, Msg: "must be > 0"}
	}
	return nil
}

// Money bounds a decimal to at most scale fractional digits and intDigits
// integer digits. Huge exponents are refused before any rescaling.
func Money(field string, v decimal.Decimal, scale int32, intDigits int) *ErrField {
	exp := v.Exponent()
	if exp > int32(intDigits) || exp < -(scale+int32(intDigits)+8) {
		return &ErrField{Field: field, Msg: "out of range"}
	}
	if exp < -scale && !v.Equal(v.Truncate(scale)) {
		return &ErrField{Field: field, Msg: fmt.Sprintf("at most %d decimal places", scale)}
	}
	whole := v.Truncate(0)
	if whole.NumDigits()+int(whole.Exponent()) > intDigits {
		return &ErrField{Field: field, Msg: "out of range"}
	}
	return nil
}
