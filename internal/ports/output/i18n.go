package output

// T renders user-facing texts: reminders, command replies and error messages.
type T interface {
	// T renders the message identified by key for locale. data feeds the
	// template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
