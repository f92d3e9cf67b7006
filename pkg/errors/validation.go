package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFormat validates an output format name.
// Supported formats are svg, png, and pdf.
func ValidateFormat(format string) error {
	switch format {
	case "svg", "png", "pdf":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	default:
		return New(ErrCodeInvalidFormat, "unknown output format: %q (supported: svg, png, pdf)", format)
	}
}

// diagramIDRegex matches the UUIDs the server hands out for diagrams.
var diagramIDRegex = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateDiagramID validates a diagram identifier from a request path.
// IDs are lowercase UUIDs; anything else is rejected before registry lookup
// so malformed input never reaches storage.
func ValidateDiagramID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "diagram id cannot be empty")
	}
	if !diagramIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid diagram id: %q", id)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateLabel validates a node label from untrusted input.
// Labels may be any Unicode text but must not carry control characters
// (except tab) and are capped to keep layout math and SVG output sane.
func ValidateLabel(label string) error {
	const maxLabelLength = 1024
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d bytes)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "label contains control characters")
		}
	}

	if strings.ContainsRune(label, '\x00') {
		return New(ErrCodeInvalidInput, "label contains null byte")
	}

	return nil
}
