package workflow

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"nexus-intake/internal/domain/sale"
)

// CustomerValidator validates the enrollment form. It is a pure check over
// the current field set; validation performs no side effects.
type CustomerValidator struct{ v *validator.Validate }

func NewCustomerValidator() *CustomerValidator {
	v := validator.New()

	// report failures under the form's wire field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	// tax id: 11-digit CPF or 14-digit CNPJ, checksum-verified
	_ = v.RegisterValidation("cpfcnpj", func(fl validator.FieldLevel) bool {
		return ValidTaxID(fl.Field().String())
	})
	// name fields must exceed the param length after trimming
	_ = v.RegisterValidation("trimlongerthan", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) > n
	})

	return &CustomerValidator{v: v}
}

// Validate returns one FieldError per failing field, empty when the form is
// submittable.
func (cv *CustomerValidator) Validate(data sale.CustomerData) []FieldError {
	err := cv.v.Struct(data)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: e.Field(), Message: "is required"})
		case "cpfcnpj":
			out = append(out, FieldError{Field: e.Field(), Message: "must be a valid CPF or CNPJ"})
		case "trimlongerthan":
			out = append(out, FieldError{Field: e.Field(), Message: "is too short"})
		case "email":
			out = append(out, FieldError{Field: e.Field(), Message: "must be a valid e-mail"})
		default:
			out = append(out, FieldError{Field: e.Field(), Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

func digitsOf(s string) []int {
	out := make([]int, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, int(r-'0'))
		}
	}
	return out
}

func allSame(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}

// ValidTaxID accepts a checksum-valid CPF (11 digits) or CNPJ (14 digits),
// with or without punctuation.
func ValidTaxID(s string) bool {
	d := digitsOf(s)
	switch len(d) {
	case 11:
		return validCPF(d)
	case 14:
		return validCNPJ(d)
	}
	return false
}

func validCPF(d []int) bool {
	if allSame(d) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		check := sum * 10 % 11 % 10
		if check != d[n] {
			return false
		}
	}
	return true
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

func validCNPJ(d []int) bool {
	if allSame(d) {
		return false
	}
	for _, n := range []int{12, 13} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * cnpjWeights[len(cnpjWeights)-n+i]
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if check != d[n] {
			return false
		}
	}
	return true
}
