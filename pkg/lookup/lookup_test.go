package lookup

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProtocol = "CANAA-20240102030405-123"

func TestURL(t *testing.T) {
	g := NewGenerator(nil)
	assert.Equal(t, "https://projeto-canaa.com/consulta/"+testProtocol, g.URL(testProtocol))

	g = NewGenerator(func() string { return "http://localhost:5000/" })
	assert.Equal(t, "http://localhost:5000/consulta/"+testProtocol, g.URL(testProtocol))

	g = NewGenerator(func() string { return "" })
	assert.Equal(t, "https://projeto-canaa.com/consulta/"+testProtocol, g.URL(testProtocol))
}

func TestPNG(t *testing.T) {
	b, err := NewGenerator(nil).PNG(testProtocol)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")))

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, bounds.Dx(), bounds.Dy())
	assert.Zero(t, bounds.Dx()%moduleSize)
	// version 1 is 21 modules plus the 4-module border on each side
	assert.GreaterOrEqual(t, bounds.Dx(), (21+8)*moduleSize)
}

func TestBase64(t *testing.T) {
	g := NewGenerator(nil)
	s, err := g.Base64(testProtocol)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)

	raw, err := g.PNG(testProtocol)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
