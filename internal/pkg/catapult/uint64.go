package catapult

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidUInt64 is returned when a 64-bit identifier cannot be parsed.
var ErrInvalidUInt64 = errors.New("invalid uint64 identifier")

// FromDWords joins the low and high 32-bit words of a 64-bit value.
func FromDWords(lo, hi uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// DWords splits v into its [low, high] 32-bit words.
func DWords(v uint64) [2]uint32 {
	return [2]uint32{uint32(v), uint32(v >> 32)}
}

// FormatUInt64 renders v as 16 upper-case hex digits, the notation used by
// the REST gateway for identifiers.
func FormatUInt64(v uint64) string {
	return fmt.Sprintf("%016X", v)
}

// ParseUInt64 parses a 64-bit identifier that arrives either as a JSON array
// of two 32-bit words ("[664046103, 198505464]", low word first) or as a
// hexadecimal string ("0BD4F3F827948A17", "0x0BD4'F3F8'2794'8A17").
// A leading '[' selects the array form.
func ParseUInt64(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidUInt64)
	}

	if s[0] == '[' {
		var words []uint32
		if err := json.Unmarshal([]byte(s), &words); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidUInt64, err)
		}

		if len(words) != 2 {
			return 0, fmt.Errorf("%w: expected 2 words, got %d", ErrInvalidUInt64, len(words))
		}

		return FromDWords(words[0], words[1]), nil
	}

	digits := strings.ReplaceAll(s, "'", "")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}

	if digits == "" || len(digits) > 16 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUInt64, s)
	}

	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidUInt64, err)
	}

	return v, nil
}
