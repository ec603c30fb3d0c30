package nurserysdk

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const bootstrapRequiredReason = "required"

// Validate checks the bootstrap request fields. It returns field names mapped
// to what is wrong with them, or nil when the request is valid.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)

	b.validateEmail(errs)
	b.validatePassword(errs)
	b.validateDisplayName(errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (b BootstrapRequest) validateEmail(errs map[string]string) {
	email := strings.TrimSpace(b.Email)
	switch {
	case email == "":
		errs["email"] = bootstrapRequiredReason
	case len(email) > 254:
		errs["email"] = "too long (max 254)"
	default:
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			errs["email"] = "must be a plain email address"
		}
	}
}

func (b BootstrapRequest) validatePassword(errs map[string]string) {
	n := utf8.RuneCountInString(b.Password)
	switch {
	case b.Password == "":
		errs["password"] = bootstrapRequiredReason
	case n < 8 || n > 128:
		errs["password"] = "must be 8-128 characters"
	}
}

func (b BootstrapRequest) validateDisplayName(errs map[string]string) {
	name := strings.TrimSpace(b.DisplayName)
	switch {
	case name == "":
		errs["display_name"] = bootstrapRequiredReason
	case utf8.RuneCountInString(name) > 64:
		errs["display_name"] = "too long (max 64)"
	}
}
