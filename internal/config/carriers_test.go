package config

import (
	"testing"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCarriers(t *testing.T) {
	parser := NewInputParser()
	carriers, err := parser.LoadCarriers("testdata/carriers.yaml")

	require.NoError(t, err)
	require.Len(t, carriers, 2)
	assert.Equal(t, "1234567", carriers[0].CarrierID)
	assert.Equal(t, "Acme Hauling LLC", carriers[0].LegalName)
	assert.Equal(t, "12-3456789", carriers[0].EIN)
	assert.Equal(t, "corporation", carriers[1].EntityType)
}

func TestLoadCarriers_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError string
	}{
		{name: "Missing id", content: "carriers:\n  - legal_name: Acme\n", expectError: "carrier id is required"},
		{name: "Missing name", content: "carriers:\n  - carrier_id: \"1\"\n", expectError: "legal name is required"},
		{
			name:        "Duplicate",
			content:     "carriers:\n  - carrier_id: \"1\"\n    legal_name: A\n  - carrier_id: \"1\"\n    legal_name: B\n",
			expectError: "duplicate carrier 1",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.LoadCarriers(writeTemp(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	_, err := parser.LoadCarriers("missing.yaml")
	assert.ErrorContains(t, err, "failed to read file")
}
