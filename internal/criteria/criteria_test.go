package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Empty(t *testing.T) {
	c, err := Normalize(map[string][]string{})
	require.NoError(t, err)
	assert.Equal(t, KindNone, c.Kind)
	assert.Empty(t, c.Conditions)

	c, err = Normalize(nil)
	require.NoError(t, err)
	assert.Equal(t, KindNone, c.Kind)
}

func TestNormalize_Single(t *testing.T) {
	for _, key := range []string{"name", "dean", "course"} {
		t.Run(key, func(t *testing.T) {
			c, err := Normalize(map[string][]string{key: {"x"}})
			require.NoError(t, err)
			assert.Equal(t, KindSingle, c.Kind)
			require.Len(t, c.Conditions, 1)
			assert.Equal(t, Condition{Field: Field(key), Value: "x"}, c.Conditions[0])
			assert.True(t, c.IsSingle(Field(key)))
		})
	}
}

func TestNormalize_CompoundKeepsFieldOrder(t *testing.T) {
	c, err := Normalize(map[string][]string{
		"course": {"Informatik"},
		"name":   {"iwi"},
		"dean":   {"Nees"},
	})
	require.NoError(t, err)
	assert.Equal(t, KindCompound, c.Kind)
	assert.Equal(t, []Condition{
		{Field: FieldName, Value: "iwi"},
		{Field: FieldDean, Value: "Nees"},
		{Field: FieldCourse, Value: "Informatik"},
	}, c.Conditions)
	assert.False(t, c.IsSingle(FieldName))

	v, ok := c.Value(FieldDean)
	assert.True(t, ok)
	assert.Equal(t, "Nees", v)
}

func TestNormalize_Rejects(t *testing.T) {
	cases := map[string]map[string][]string{
		"unknown key":            {"email": {"a"}},
		"unknown among known":    {"name": {"iwi"}, "foo": {"bar"}},
		"no value":               {"name": {}},
		"two values":             {"dean": {"a", "b"}},
		"two values in compound": {"name": {"iwi"}, "course": {"a", "b"}},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(params)
			assert.ErrorIs(t, err, ErrNoMatchingCriteria)
		})
	}
}

func TestCriteria_String(t *testing.T) {
	c, err := Normalize(map[string][]string{"dean": {"Nees"}, "name": {"iwi"}})
	require.NoError(t, err)
	assert.Equal(t, `{name="iwi", dean="Nees"}`, c.String())
	assert.Equal(t, "{}", Criteria{}.String())
}

func TestContains_IgnoresCase(t *testing.T) {
	assert.True(t, Contains("Wirtschaftsinformatik", "INFORMATIK"))
	assert.False(t, Contains("MET", "iwi"))
}
