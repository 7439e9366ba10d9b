// Package criteria turns raw query parameters into a faculty filter.
package criteria

import (
	"errors"
	"fmt"
	"strings"
)

// Field is a searchable faculty attribute.
type Field string

const (
	FieldName   Field = "name"
	FieldDean   Field = "dean"
	FieldCourse Field = "course"
)

// fieldOrder fixes the order of conditions in a compound filter.
var fieldOrder = []Field{FieldName, FieldDean, FieldCourse}

// Kind classifies a normalized filter.
type Kind int

const (
	// KindNone means no filter: fetch everything.
	KindNone Kind = iota
	// KindSingle carries exactly one condition.
	KindSingle
	// KindCompound is the conjunction of two or more conditions.
	KindCompound
)

// ErrNoMatchingCriteria rejects a parameter map as a whole.
var ErrNoMatchingCriteria = errors.New("no matching criteria")

// Condition matches faculties whose field contains Value.
type Condition struct {
	Field Field
	Value string
}

// Criteria is a validated filter. Conditions are ANDed.
type Criteria struct {
	Kind       Kind
	Conditions []Condition
}

// Normalize validates params. Any unknown key, or a known key without exactly
// one value, rejects the whole map with ErrNoMatchingCriteria.
func Normalize(params map[string][]string) (Criteria, error) {
	if len(params) == 0 {
		return Criteria{Kind: KindNone}, nil
	}

	values := make(map[Field]string, len(params))
	for key, vals := range params {
		field := Field(key)
		if !field.valid() {
			return Criteria{}, fmt.Errorf("%w: unknown key %q", ErrNoMatchingCriteria, key)
		}
		if len(vals) != 1 {
			return Criteria{}, fmt.Errorf("%w: key %q needs exactly one value, got %d", ErrNoMatchingCriteria, key, len(vals))
		}
		values[field] = vals[0]
	}

	conds := make([]Condition, 0, len(values))
	for _, f := range fieldOrder {
		if v, ok := values[f]; ok {
			conds = append(conds, Condition{Field: f, Value: v})
		}
	}

	kind := KindCompound
	if len(conds) == 1 {
		kind = KindSingle
	}
	return Criteria{Kind: kind, Conditions: conds}, nil
}

// Value returns the value for field f, if the filter has one.
func (c Criteria) Value(f Field) (string, bool) {
	for _, cond := range c.Conditions {
		if cond.Field == f {
			return cond.Value, true
		}
	}
	return "", false
}

// IsSingle reports whether c is a single-field filter on f.
func (c Criteria) IsSingle(f Field) bool {
	return c.Kind == KindSingle && c.Conditions[0].Field == f
}

func (c Criteria) String() string {
	if c.Kind == KindNone {
		return "{}"
	}
	parts := make([]string, len(c.Conditions))
	for i, cond := range c.Conditions {
		parts[i] = fmt.Sprintf("%s=%q", cond.Field, cond.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (f Field) valid() bool {
	switch f {
	case FieldName, FieldDean, FieldCourse:
		return true
	}
	return false
}

// Contains reports whether s contains sub, ignoring case.
func Contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
