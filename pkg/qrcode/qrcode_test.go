package qrcode_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesperhq/authkit/pkg/qrcode"
)

var pngMagic = []byte{0x89, 0x50, 0x4e, 0x47}

func TestGenerate(t *testing.T) {
	t.Run("renders png", func(t *testing.T) {
		png, err := qrcode.Generate("otpauth://totp/Mento:a@x.com?secret=ABC", 128)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("default size", func(t *testing.T) {
		png, err := qrcode.Generate("hello", 0)
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := qrcode.Generate("   ", 128)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})
}

func TestDataURL(t *testing.T) {
	url, err := qrcode.DataURL("otpauth://totp/Mento:a@x.com?secret=ABC", 128)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	_, err = qrcode.DataURL("", 128)
	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
}
