package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateClassName validates a single CSS class name toggled on an overlay pane.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No whitespace (a class list is a list, not a space-joined string)
//   - No control characters
//   - Maximum length of 128 characters
func ValidateClassName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidClass, "class name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidClass, "class name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidClass, "class name contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidClass, "class name %q contains whitespace", name)
		}
	}

	return nil
}

// selectorRegex matches the simple selectors understood by the in-memory
// document: a tag, a class, an id or the universal selector.
var selectorRegex = regexp.MustCompile(`^(\*|[a-zA-Z][a-zA-Z0-9-]*|[.#][a-zA-Z_-][a-zA-Z0-9_-]*)$`)

// ValidateSelector validates a transform-origin selector.
func ValidateSelector(selector string) error {
	if selector == "" {
		return New(ErrCodeInvalidSelector, "selector cannot be empty")
	}

	if !selectorRegex.MatchString(strings.TrimSpace(selector)) {
		return New(ErrCodeInvalidSelector, "unsupported selector: %q", selector)
	}

	return nil
}

// ValidatePath validates a scenario file path for safety.
// It prevents null bytes and control characters and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL uses one of the given schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %v", schemes)
}
