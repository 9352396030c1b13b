package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 0, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}

func TestEstimateTokensDeterministic(t *testing.T) {
	text := "create a coffee shop landing page"
	assert.Equal(t, EstimateTokens(text), EstimateTokens(text))
}
