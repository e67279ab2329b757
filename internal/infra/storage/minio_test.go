package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	cases := map[string]string{
		"image/png":                ".png",
		"image/jpeg":               ".jpg",
		"IMAGE/WEBP":               ".webp",
		"image/jpeg; charset=utf8": ".jpg",
	}
	for ct, ext := range cases {
		key, err := ObjectKey(ct)
		require.NoError(t, err, ct)
		assert.True(t, strings.HasPrefix(key, "plants/"), key)
		assert.True(t, strings.HasSuffix(key, ext), key)
	}
}

func TestObjectKey_Unique(t *testing.T) {
	a, _ := ObjectKey("image/png")
	b, _ := ObjectKey("image/png")
	assert.NotEqual(t, a, b)
}

func TestObjectKey_Unsupported(t *testing.T) {
	_, err := ObjectKey("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
