package keyring

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

type addParams struct {
	PIN  string `validate:"omitempty,printable"`
	DID  string `validate:"omitempty,did"`
	Name string `validate:"omitempty,idname"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Field-level rules the daemon enforces; rejecting them client-side
	// saves a round trip and yields a better error message.
	_ = v.RegisterValidation("did", validDID)
	_ = v.RegisterValidation("idname", validName)
	_ = v.RegisterValidation("printable", printableOnly)
	return v
}

func validDID(fl validator.FieldLevel) bool {
	did := fl.Field().String()
	if len(did) < 5 || len(did) > 31 {
		return false
	}
	for _, r := range did {
		if !strings.ContainsRune("0123456789#*", r) {
			return false
		}
	}
	return true
}

func validName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) > 63 {
		// the limit is UTF-8 bytes, not runes
		return false
	}
	if strings.TrimSpace(name) != name {
		return false
	}
	return printable(name)
}

func printableOnly(fl validator.FieldLevel) bool {
	return printable(fl.Field().String())
}

func printable(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func validateFields(pin, did, name string) error {
	p := addParams{PIN: pin, DID: did, Name: name}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
