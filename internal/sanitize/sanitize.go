// Package sanitize validates text that enters the editor from remote clients.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxTextSize is 64KB, plenty for a hand-written list.
	DefaultMaxTextSize = 64 * 1024
	// EnvMaxTextSize is the environment variable to override the default.
	EnvMaxTextSize = "VERDICT_MAX_TEXT_SIZE"
)

var (
	ErrInputTooLarge    = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8      = errors.New("input contains invalid UTF-8 sequences")
	ErrControlCharacter = errors.New("input contains control characters")
)

// Text checks input against a byte limit (limit <= 0 uses MaxTextSize), UTF-8
// validity and control characters.
//
// Unlike a terminal sanitizer it rejects instead of stripping: clients send
// selection offsets into the text, and removing characters would shift them.
func Text(input string, limit int) error {
	if limit <= 0 {
		limit = MaxTextSize()
	}
	if len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}

	// Newline, tab and carriage return are text; ESC, NUL, BEL and friends are not.
	for i, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			return fmt.Errorf("%w: %U at byte %d", ErrControlCharacter, r, i)
		}
	}
	return nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// MaxTextSize returns the limit from the environment, or the default.
func MaxTextSize() int {
	if val := os.Getenv(EnvMaxTextSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxTextSize
}
