package stability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassUpgrade(t *testing.T) {
	tests := []struct {
		in, want Class
	}{
		{ClassI, ClassII},
		{ClassII, ClassIII1},
		{ClassIII1, ClassIII2},
		{ClassIII2, ClassIV},
		{ClassIV, ClassV},
		{ClassV, ClassV},
		{ClassUndefined, ClassUndefined},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Upgrade(), "upgrade %q", tt.in)
	}
}

func TestClassCodes(t *testing.T) {
	want := map[Class]int{ClassI: 1, ClassII: 2, ClassIII1: 3, ClassIII2: 4, ClassIV: 5, ClassV: 6}
	for _, c := range Classes {
		assert.Equal(t, want[c], c.Code(), "class %s", c)
	}
	assert.Equal(t, 0, ClassUndefined.Code())
	assert.Equal(t, "", ClassUndefined.String())
	assert.False(t, ClassUndefined.Valid())
}

func TestParseClass(t *testing.T) {
	for _, c := range Classes {
		got, err := ParseClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseClass("")
	require.NoError(t, err)
	assert.Equal(t, ClassUndefined, got)

	_, err = ParseClass("VI")
	assert.Error(t, err)
}
