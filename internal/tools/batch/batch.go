package batch

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/teemow/gtasks-mcp/internal/workflow"
)

// ParseStringOrArray parses a parameter that can be either a single string,
// an array of strings or a JSON-encoded array of strings.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		// A title like "[ADMIN] Renew passport" is not JSON and stays a
		// single value.
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var items []interface{}
			if err := json.Unmarshal([]byte(v), &items); err == nil {
				return ParseStringOrArray(items, paramName)
			}
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return ParseStringOrArray(toInterfaces(v), paramName)
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

func toInterfaces(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// Elements is a decoded object array. Items holds the elements that decoded;
// Failures holds the ones that did not, keyed by their position in the input.
type Elements[T any] struct {
	Items     []T
	Failures  []workflow.BatchError
	positions []int
}

// Len returns the number of input elements, decoded or not.
func (e *Elements[T]) Len() int {
	return len(e.Items) + len(e.Failures)
}

// Merge maps the indexes of a report produced from Items back to input
// positions and adds the decode failures, so every input element is
// accounted for once.
func (e *Elements[T]) Merge(r *workflow.BatchReport) *workflow.BatchReport {
	for i := range r.Results {
		r.Results[i].Index = e.position(r.Results[i].Index)
	}
	for i := range r.Warnings {
		r.Warnings[i].Index = e.position(r.Warnings[i].Index)
	}
	for i := range r.Errors {
		r.Errors[i].Index = e.position(r.Errors[i].Index)
	}
	r.Errors = append(r.Errors, e.Failures...)
	slices.SortStableFunc(r.Errors, func(a, b workflow.BatchError) int {
		return a.Index - b.Index
	})
	return r
}

func (e *Elements[T]) position(i int) int {
	if i < 0 || i >= len(e.positions) {
		return i
	}
	return e.positions[i]
}

// ParseObjectArray decodes an array of objects into typed elements. The
// parameter may be a decoded JSON array or a JSON-encoded string. Elements
// are decoded individually: one that does not fit T becomes a failure
// carrying the raw element and the others are still returned. Only a
// missing, empty or non-array parameter is an error.
func ParseObjectArray[T any](param interface{}, paramName string) (*Elements[T], error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var raw []json.RawMessage
	switch v := param.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return nil, fmt.Errorf("%s must be an array of objects: %w", paramName, err)
		}
	case []interface{}:
		for _, item := range v {
			b, err := json.Marshal(item)
			if err != nil {
				return nil, fmt.Errorf("%s contains an unencodable element: %w", paramName, err)
			}
			raw = append(raw, b)
		}
	default:
		return nil, fmt.Errorf("%s must be an array of objects", paramName)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%s must contain at least one element", paramName)
	}

	out := &Elements[T]{}
	for i, item := range raw {
		var el T
		if err := json.Unmarshal(item, &el); err != nil {
			out.Failures = append(out.Failures, workflow.BatchError{
				Index: i,
				Input: item,
				Error: fmt.Sprintf("%s[%d] is invalid: %v", paramName, i, err),
			})
			continue
		}
		out.Items = append(out.Items, el)
		out.positions = append(out.positions, i)
	}
	return out, nil
}

// FormatReport renders a batch report as its summary, one line per element
// and the full JSON partition.
func FormatReport(r *workflow.BatchReport) string {
	jsonBytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return r.String()
	}
	return r.String() + "\n\n" + string(jsonBytes)
}
