package util

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImageDataURI(t *testing.T) {
	payload := []byte("not really pixels but close enough")
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("png", func(t *testing.T) {
		data, format, err := DecodeImageDataURI("data:image/png;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
		assert.Equal(t, "png", format)
	})

	t.Run("jpeg normalized to jpg", func(t *testing.T) {
		_, format, err := DecodeImageDataURI("data:image/jpeg;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, "jpg", format)
	})

	t.Run("uppercase format accepted", func(t *testing.T) {
		_, format, err := DecodeImageDataURI("data:image/PNG;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
	})

	t.Run("gif rejected", func(t *testing.T) {
		_, _, err := DecodeImageDataURI("data:image/gif;base64," + encoded)
		assert.ErrorIs(t, err, ErrImageFormatNotAllowed)
	})

	t.Run("missing base64 marker", func(t *testing.T) {
		_, _, err := DecodeImageDataURI("data:image/png," + encoded)
		assert.ErrorIs(t, err, ErrInvalidImageData)
	})

	t.Run("not a data uri", func(t *testing.T) {
		_, _, err := DecodeImageDataURI("https://example.com/cat.png")
		assert.ErrorIs(t, err, ErrInvalidImageData)
	})

	t.Run("bad base64 payload", func(t *testing.T) {
		_, _, err := DecodeImageDataURI("data:image/png;base64,@@@@")
		assert.ErrorIs(t, err, ErrInvalidImageData)
	})

	t.Run("payload over the size cap", func(t *testing.T) {
		big := base64.StdEncoding.EncodeToString(make([]byte, MaxImageSizeBytes+1))
		_, _, err := DecodeImageDataURI("data:image/jpg;base64," + big)
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("payload exactly at the cap", func(t *testing.T) {
		max := base64.StdEncoding.EncodeToString(make([]byte, MaxImageSizeBytes))
		data, _, err := DecodeImageDataURI("data:image/jpg;base64," + max)
		require.NoError(t, err)
		assert.Len(t, data, MaxImageSizeBytes)
	})

	t.Run("empty string", func(t *testing.T) {
		_, _, err := DecodeImageDataURI("")
		assert.ErrorIs(t, err, ErrInvalidImageData)
	})

	t.Run("whitespace payload rejected", func(t *testing.T) {
		_, _, err := DecodeImageDataURI("data:image/png;base64," + strings.Repeat(" ", 8))
		assert.ErrorIs(t, err, ErrInvalidImageData)
	})
}
