package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidName reports a name that cannot be used as a filename stem.
var ErrInvalidName = errors.New("invalid selection name")

// Characters that are unsafe in filenames on the platforms we export to.
const unsafeNameChars = `<>:"/\|?*`

// Pattern is a naming convention derived from a user rename: a prefix, a
// zero-padded numeric field, and a suffix. DigitWidth 0 means the learned
// name had no digit run; generated names then append a bare counter.
type Pattern struct {
	Prefix     string `json:"prefix"`
	DigitWidth int    `json:"digit_width"`
	Suffix     string `json:"suffix"`
}

// Format renders the pattern with the given counter value. Counters wider
// than DigitWidth are not truncated.
func (p Pattern) Format(n int) string {
	if p.DigitWidth == 0 {
		return p.Prefix + strconv.Itoa(n) + p.Suffix
	}
	return fmt.Sprintf("%s%0*d%s", p.Prefix, p.DigitWidth, n, p.Suffix)
}

// ParseName splits a name around its rightmost run of digit characters,
// e.g. "study_fig_001" -> prefix "study_fig_", width 3, number 1, suffix "".
// ok is false when the name contains no digits.
func ParseName(name string) (p Pattern, number int, ok bool) {
	end := -1
	start := -1
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] >= '0' && name[i] <= '9' {
			if end == -1 {
				end = i + 1
			}
			start = i
		} else if end != -1 {
			break
		}
	}
	if end == -1 {
		return Pattern{}, 0, false
	}

	digits := name[start:end]
	n, err := strconv.Atoi(digits)
	if err != nil {
		// Digit runs long enough to overflow int are not a usable counter.
		return Pattern{}, 0, false
	}
	return Pattern{
		Prefix:     name[:start],
		DigitWidth: len(digits),
		Suffix:     name[end:],
	}, n, true
}

// ValidateName rejects empty names and names containing characters that are
// invalid in filenames.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, unsafeNameChars) {
		return fmt.Errorf("%w: %q contains one of %s", ErrInvalidName, name, unsafeNameChars)
	}
	return nil
}

var captionRe = regexp.MustCompile(`(?i)\b(fig(?:ure)?|table|chart|scheme|plate)\.?\s*(\d+)`)

// SuggestFromCaption derives a candidate selection name from caption text
// recognized inside the selection, e.g. "Figure 3: Results" -> "figure_3".
// Returns "" when the text holds nothing usable. The suggestion is only an
// offer to the user; it never touches the learned pattern.
func SuggestFromCaption(text string) string {
	m := captionRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	kind := strings.ToLower(m[1])
	if kind == "fig" {
		kind = "figure"
	}
	return kind + "_" + m[2]
}
