package runtime

import (
	"fmt"
	"regexp"
	"strconv"
)

// placeholderPattern matches {{identifier}} where identifier is an
// alphanumeric/underscore token.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Interpolate replaces each {{name}} placeholder in text with the string
// form of the merged-view variable of that name. Unresolved identifiers are
// left untouched in their original {{name}} form so the gap stays visible
// and diagnosable. Text without placeholders is returned unchanged.
func (s *Store) Interpolate(text string) string {
	if !placeholderPattern.MatchString(text) {
		return text
	}
	snapshot := s.Snapshot()
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		v, ok := snapshot[name]
		if !ok {
			return match
		}
		return Stringify(v)
	})
}

// Stringify renders a variable value the way the preview displays it:
// numbers without a trailing ".0", everything else via the default format.
func Stringify(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
