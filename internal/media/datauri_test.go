package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

func TestDecodeDataURISniffsContent(t *testing.T) {
	img, err := DecodeDataURI(pngDataURI, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.NotEmpty(t, img.Data)

	img, err = DecodeDataURI(gifDataURI, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", img.ContentType)
}

func TestDecodeDataURIRejectsMislabeledPayload(t *testing.T) {
	_, err := DecodeDataURI(htmlDataURI, 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeDataURIFallsBackToDeclaredType(t *testing.T) {
	img, err := DecodeDataURI(opaqueDataURI, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)

	img, err = DecodeDataURI("data:image/jpeg;base64,aGVsbG8gd29ybGQ=", 0)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)

	_, err = DecodeDataURI("data:image/svg+xml;base64,XYZ", 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeDataURIRejectsOversized(t *testing.T) {
	_, err := DecodeDataURI(pngDataURI, 16)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeDataURIRejectsMalformed(t *testing.T) {
	cases := []string{
		"https://cdn/a.png",
		"data:image/png;base64",
		"data:image/png,rawbytes",
		"data:image/png;base64,!!!not-base64!!!",
		"data:image/png;base64,",
	}
	for _, raw := range cases {
		_, err := DecodeDataURI(raw, 0)
		require.Error(t, err, raw)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), raw)
	}
}
