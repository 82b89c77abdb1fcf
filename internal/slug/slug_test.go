package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Wireless Mouse":          "wireless-mouse",
		"  USB-C  Hub (4 ports) ": "usb-c-hub-4-ports",
		"Café & Té":               "caf-t",
		"---":                     "",
		"Already-a-slug":          "already-a-slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("home-office"))
	assert.True(t, Valid("x1"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("Home"))
	assert.False(t, Valid("double--dash"))
	assert.False(t, Valid("-edge"))
}
