package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	orig := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	decoded, err := DecodeCursor(orig.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, orig.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, orig.ID, decoded.ID)
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := []string{
		"%%%not-base64%%%",
		"bm8tcGlwZQ",     // "no-pipe"
		"eHwxMjM",        // "x|123" — non-numeric timestamp
		"MTIzfG5vdHV1aWQ", // "123|notuuid"
	}
	for _, in := range cases {
		_, err := DecodeCursor(in)
		assert.ErrorIs(t, err, ErrInvalidCursor, "input %q", in)
	}
}
