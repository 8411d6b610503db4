package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPromptIsDeterministic(t *testing.T) {
	assert.Equal(t, HashPrompt("What is your refund policy?"), HashPrompt("What is your refund policy?"))
	assert.NotEqual(t, HashPrompt("What is your refund policy?"), HashPrompt("What is your return policy?"))
}

func TestHashPromptIgnoresSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, HashPrompt("hello"), HashPrompt("  hello \n"))
	assert.NotEqual(t, HashPrompt("hello"), HashPrompt("hel lo"))
}

func TestHashPromptIsHexSHA256(t *testing.T) {
	assert.Len(t, HashPrompt("anything"), 64)
}
