package errors

import (
	"strings"
	"unicode"
)

// ValidateKeyField validates the name of the data field that carries node
// keys. The name ends up in JSON lookups and log lines, so it must be a short
// printable identifier.
func ValidateKeyField(name string) error {
	if name == "" {
		return New(ErrCodeInvalidKeyField, "key field cannot be empty")
	}

	const maxLen = 128
	if len(name) > maxLen {
		return New(ErrCodeInvalidKeyField, "key field too long (max %d characters)", maxLen)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidKeyField, "key field contains invalid characters")
		}
	}

	if reservedField(name) {
		return New(ErrCodeInvalidKeyField, "key field %q is reserved", name)
	}
	return nil
}

// ValidateColor validates a color value before it is written into an inline
// style. Any CSS color syntax is accepted; characters that would break out of
// the style declaration are not.
func ValidateColor(c string) error {
	if strings.TrimSpace(c) == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if strings.ContainsAny(c, ";:\"'<>{}\\") {
		return New(ErrCodeInvalidColor, "color %q contains invalid characters", c)
	}
	for _, r := range c {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColor, "color contains control characters")
		}
	}
	return nil
}

// ValidateTheme validates a color scheme name.
func ValidateTheme(name string) error {
	switch name {
	case "light", "dark":
		return nil
	}
	return New(ErrCodeInvalidTheme, "unknown theme %q (want light or dark)", name)
}

func reservedField(name string) bool {
	switch name {
	case "name", "children", "lazy", "color", "backgroundColor", "dashArray",
		"outSelfShape", "outSelfFill", "outColor", "inChildrenShape",
		"inChildrenFill", "extensible":
		return true
	}
	return false
}
