package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := NewPlaceholderID()
	assert.True(t, strings.HasPrefix(id, PrefixPlaceholder+"_"), id)
	require.NoError(t, Validate(id, PrefixPlaceholder))
	assert.NotEqual(t, id, NewPlaceholderID())
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	assert.Error(t, Validate(NewProjectID(), PrefixAsset))
	assert.Error(t, Validate("not-an-id", PrefixProject))
}
