package discord

import (
	"errors"
	"strings"

	"calbot/internal/domain"
	"calbot/internal/ports/output"
)

// DomainErrorMessage resolves err to a user-facing message through the
// "errors.<code>" catalog keys. Errors without a domain code map to
// "errors.generic".
func DomainErrorMessage(tr output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	code := domain.Code(err)
	if code == "" {
		return tr.T(locale, "errors.generic", nil)
	}

	data := map[string]any{}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		data["Fields"] = strings.Join(ve.Fields, ", ")
		data["Value"] = ve.Value
	}
	return tr.T(locale, "errors."+code, data)
}
