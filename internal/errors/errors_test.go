package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	err := Newf("zip %s has %d digits", "9810123", 7).
		Component("normalize").
		Category(CategoryNormalization).
		Context("field", "zip").
		Context("value", "9810123").
		Build()

	assert.Equal(t, "zip 9810123 has 7 digits", err.Error())
	assert.Equal(t, "normalize", err.GetComponent())
	assert.Equal(t, CategoryNormalization, err.Category)

	ctx := err.GetContext()
	assert.Equal(t, "zip", ctx["field"])
	assert.Equal(t, "9810123", ctx["value"])
	assert.False(t, err.Timestamp.IsZero())
}

func TestBuildDefaults(t *testing.T) {
	err := Newf("boom").Build()
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.Equal(t, ComponentUnknown, err.GetComponent())
	assert.Nil(t, err.GetContext())
}

func TestHasCategory(t *testing.T) {
	err := Newf("missing config").Category(CategoryConfiguration).Build()

	assert.True(t, HasCategory(err, CategoryConfiguration))
	assert.False(t, HasCategory(err, CategoryDatabase))
	assert.False(t, HasCategory(NewStd("plain"), CategoryConfiguration))
	assert.True(t, HasCategory(NewStd("plain"), CategoryGeneric))
}

func TestHasCategoryThroughWrapping(t *testing.T) {
	inner := Newf("table missing").Category(CategoryDatabase).Build()
	wrapped := fmt.Errorf("import run failed: %w", inner)

	assert.True(t, HasCategory(wrapped, CategoryDatabase))
	assert.Equal(t, CategoryDatabase, CategoryOf(wrapped))
}

func TestUnwrap(t *testing.T) {
	cause := NewStd("root cause")
	err := New(cause).Category(CategoryFileIO).Build()

	require.True(t, Is(err, cause))

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, CategoryFileIO, ee.Category)
}

func TestGetContextIsACopy(t *testing.T) {
	err := Newf("x").Context("k", "v").Build()
	ctx := err.GetContext()
	ctx["k"] = "mutated"

	assert.Equal(t, "v", err.GetContext()["k"])
}
