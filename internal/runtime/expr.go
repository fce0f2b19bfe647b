package runtime

import (
	"regexp"
	"strconv"
	"strings"
)

// The computed-variable mini-language is a closed, pattern-based grammar.
// Exactly three forms are recognized:
//
//	sum(list.field)            Σ Number(record[field])
//	sum(list.a * list.b)       Σ Number(record[a]) × Number(record[b])
//	count(list)                sequence length
//
// Anything else is not computable and the computed variable is simply
// absent from that evaluation pass. A sum over a list NAME that is absent
// from the snapshot is likewise not computable: unbound names must not
// publish a spurious 0 (the cart, for one, is never exposed as a list
// variable). A name that is bound but not a sequence still sums to 0.
var (
	sumFieldPattern   = regexp.MustCompile(`^sum\(\s*([A-Za-z_]\w*)\.([A-Za-z_]\w*)\s*\)$`)
	sumProductPattern = regexp.MustCompile(`^sum\(\s*([A-Za-z_]\w*)\.([A-Za-z_]\w*)\s*\*\s*([A-Za-z_]\w*)\.([A-Za-z_]\w*)\s*\)$`)
	countPattern      = regexp.MustCompile(`^count\(\s*([A-Za-z_]\w*)\s*\)$`)
)

// EvalExpression evaluates expression against a snapshot of named variables.
// It is pure: the same snapshot always yields the same result. The second
// return value reports whether the expression matched a recognized form.
func EvalExpression(expression string, vars map[string]any) (float64, bool) {
	expression = strings.TrimSpace(expression)

	if m := sumFieldPattern.FindStringSubmatch(expression); m != nil {
		list, present := vars[m[1]]
		if !present {
			return 0, false
		}
		var total float64
		for _, rec := range recordsOf(list) {
			total += toNumber(rec[m[2]])
		}
		return total, true
	}

	if m := sumProductPattern.FindStringSubmatch(expression); m != nil {
		if m[1] != m[3] {
			// Both operands must reference the same list.
			return 0, false
		}
		list, present := vars[m[1]]
		if !present {
			return 0, false
		}
		var total float64
		for _, rec := range recordsOf(list) {
			total += toNumber(rec[m[2]]) * toNumber(rec[m[4]])
		}
		return total, true
	}

	if m := countPattern.FindStringSubmatch(expression); m != nil {
		return float64(len(sequenceOf(vars[m[1]]))), true
	}

	return 0, false
}

// sequenceOf returns the value as a generic sequence, or nil when the value
// is missing or not a sequence. A missing or non-list variable contributes
// zero elements rather than an error.
func sequenceOf(v any) []any {
	switch seq := v.(type) {
	case []any:
		return seq
	case []map[string]any:
		out := make([]any, len(seq))
		for i, rec := range seq {
			out[i] = rec
		}
		return out
	case []string:
		out := make([]any, len(seq))
		for i, s := range seq {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// recordsOf returns the record view of each sequence element; non-record
// elements yield an empty record so their fields read as 0.
func recordsOf(v any) []map[string]any {
	seq := sequenceOf(v)
	if seq == nil {
		return nil
	}
	out := make([]map[string]any, len(seq))
	for i, el := range seq {
		if rec, ok := el.(map[string]any); ok {
			out[i] = rec
		} else {
			out[i] = map[string]any{}
		}
	}
	return out
}

// toNumber coerces a scalar to float64, treating anything unparseable or
// missing as 0.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
