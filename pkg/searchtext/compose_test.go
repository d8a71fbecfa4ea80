package searchtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeJoinsAndLowercases(t *testing.T) {
	c := New(nil)

	got := c.Compose("Gold Hoop Earrings", "Classic 14k hoops", "earrings", "Zamels")
	assert.Equal(t, "gold hoop earrings classic 14k hoops earrings zamels earring ear jewelry studs hoops", got)
}

func TestComposeSkipsEmptyFields(t *testing.T) {
	c := New(nil)

	got := c.Compose("Plain Tee", "", "", "")
	assert.Equal(t, "plain tee", got)

	got = c.Compose("Plain Tee", "", "", "Acme")
	assert.Equal(t, "plain tee acme", got)
}

func TestComposeUnknownCategoryGetsNoAugmentation(t *testing.T) {
	c := New(nil)

	got := c.Compose("Leather Wallet", "Bifold", "wallets", "Acme")
	assert.Equal(t, "leather wallet bifold wallets acme", got)
}

func TestComposeIsDeterministic(t *testing.T) {
	c := New(nil)

	first := c.Compose("Silk Dress", "Knee length", "dresses", "Sydney Street")
	second := c.Compose("Silk Dress", "Knee length", "dresses", "Sydney Street")
	assert.Equal(t, first, second)
}

func TestComposeCustomKeywords(t *testing.T) {
	c := New(map[string]string{"hats": "hat cap headwear"})

	got := c.Compose("Wide Brim", "", "hats", "")
	assert.Equal(t, "wide brim hats hat cap headwear", got)

	// Default categories are absent when a custom map is supplied.
	got = c.Compose("Gold Ring", "", "rings", "")
	assert.Equal(t, "gold ring rings", got)
}

func TestKeywords(t *testing.T) {
	c := New(nil)

	words, ok := c.Keywords("rings")
	require.True(t, ok)
	assert.Equal(t, "ring band jewelry engagement wedding", words)

	_, ok = c.Keywords("unknown")
	assert.False(t, ok)
}
