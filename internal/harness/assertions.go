package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> %s %s\n", ev.Seq, ev.Event, ev.Name, ev.Subject)
		}
	}
	return buf.String()
}

// assertTraceContains checks that a notification with the given name (and
// subject, when set) was emitted.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Name == a.Name && (a.Subject == "" || ev.Subject == a.Subject) {
			return nil
		}
	}
	expected := a.Name
	if a.Subject != "" {
		expected += " for " + a.Subject
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the names appear in order. Other
// notifications may appear in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Names) && ev.Name == a.Names[next] {
			next++
		}
	}
	if next == len(a.Names) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("notifications in order: %v", a.Names),
		Actual:   fmt.Sprintf("matched %d of %d, stuck at %s", next, len(a.Names), a.Names[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks that the notification was emitted exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Name == a.Name {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%s emitted %d times", a.Name, a.Count),
		Actual:   fmt.Sprintf("emitted %d times", count),
		Trace:    trace,
	}
}

// assertFinalState selects rows of the dumped table by Where and checks
// that every selected row matches Expect.
func assertFinalState(result *Result, a Assertion) error {
	if result.State == nil {
		return fmt.Errorf("final_state: no state captured")
	}
	doc, err := toMap(result.State)
	if err != nil {
		return err
	}
	rows, _ := doc[a.Table].([]any)

	var selected []map[string]any
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if ok && matchSubset(row, a.Where) {
			selected = append(selected, row)
		}
	}

	if a.Rows != nil && len(selected) != *a.Rows {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%d %s rows where %v", *a.Rows, a.Table, a.Where),
			Actual:   fmt.Sprintf("%d rows", len(selected)),
		}
	}
	if len(a.Expect) == 0 {
		return nil
	}
	if len(selected) == 0 {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s row where %v", a.Table, a.Where),
			Actual:   "no matching row",
		}
	}
	for _, row := range selected {
		if !matchSubset(row, a.Expect) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s where %v to have %v", a.Table, a.Where, a.Expect),
				Actual:   fmt.Sprintf("%v", row),
			}
		}
	}
	return nil
}

// assertSession checks the session snapshot against Expect.
func assertSession(result *Result, a Assertion) error {
	doc, err := toMap(result.Session)
	if err != nil {
		return err
	}
	if matchSubset(doc, a.Expect) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSession,
		Expected: fmt.Sprintf("session to have %v", a.Expect),
		Actual:   fmt.Sprintf("%v", doc),
	}
}

// toMap round-trips v through JSON so assertions see the same field names
// as the dump and the golden files.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode for assertion: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode for assertion: %w", err)
	}
	return out, nil
}

// matchSubset reports whether actual contains every key of expected with an
// equal value. Nested maps match as subsets too.
func matchSubset(actual, expected map[string]any) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares a JSON-decoded value with a YAML-decoded one.
// Numbers compare by value regardless of their Go type.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	if a, ok := toFloat(actual); ok {
		e, ok := toFloat(expected)
		return ok && a == e
	}

	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		return ok && matchSubset(a, e)
	case []any:
		a, ok := actual.([]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for i := range e {
			if !valuesEqual(a[i], e[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(result, a)
		case AssertSession:
			err = assertSession(result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}
	return errs
}
