package agentor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ParseAndValidate(t *testing.T) {
	type Args struct {
		City string `json:"city" description:"City name"`
		Days int    `json:"days"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)

	args, err := ext.ParseAndValidate(raw(`{"city":"Oslo","days":3}`))
	require.NoError(t, err)
	assert.Equal(t, Args{City: "Oslo", Days: 3}, args)

	schema := ext.Schema()
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	city, ok := props["city"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "City name", city["description"])
}

func TestExtractor_SchemaViolations(t *testing.T) {
	type Args struct {
		Days int `json:"days"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)

	_, err = ext.ParseAndValidate(raw(`{"days":"three"}`))
	require.Error(t, err)
	assert.True(t, IsExecutionError(err))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ext.ParseAndValidate(raw(`{`))
	require.Error(t, err)
	assert.True(t, IsExecutionError(err))
}

func TestExtractor_EnumTag(t *testing.T) {
	type Args struct {
		Unit string `json:"unit" enum:"celsius, fahrenheit"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)

	props := ext.Schema()["properties"].(map[string]any)
	unit := props["unit"].(map[string]any)
	assert.Equal(t, []any{"celsius", "fahrenheit"}, unit["enum"])
}

type pointerValidated struct {
	V int `json:"v"`
}

func (p *pointerValidated) Validate() error {
	if p.V < 0 {
		return assert.AnError
	}
	return nil
}

func TestExtractor_PointerReceiverValidatable(t *testing.T) {
	ext, err := NewExtractor[pointerValidated](false)
	require.NoError(t, err)

	_, err = ext.ParseAndValidate(raw(`{"v":-1}`))
	require.Error(t, err)
	assert.True(t, IsExecutionError(err))

	out, err := ext.ParseAndValidate(raw(`{"v":1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, out.V)
}

func TestExtractor_StrictMode(t *testing.T) {
	type Args struct {
		A string `json:"a"`
	}
	ext, err := NewExtractor[Args](true)
	require.NoError(t, err)

	schema := ext.Schema()
	assert.Equal(t, false, schema["additionalProperties"])

	_, err = ext.ParseAndValidate(raw(`{"a":"x","extra":true}`))
	require.Error(t, err)
	assert.True(t, IsExecutionError(err))
}
