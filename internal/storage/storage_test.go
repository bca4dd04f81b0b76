package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "assetverse/internal/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestSniffImage(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		size     int64
		wantType string
		wantExt  string
		wantErr  bool
	}{
		{name: "png", body: pngHeader, wantType: "image/png", wantExt: ".png"},
		{name: "jpeg", body: []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), wantType: "image/jpeg", wantExt: ".jpg"},
		{name: "gif", body: []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), wantType: "image/gif", wantExt: ".gif"},
		{name: "webp", body: []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00"), wantType: "image/webp", wantExt: ".webp"},
		{name: "svg", body: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`), wantErr: true},
		{name: "html", body: []byte("<!DOCTYPE html><html><body>hi</body></html>"), wantErr: true},
		{name: "pdf", body: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), wantErr: true},
		{name: "too large", body: pngHeader, size: MaxImageSize + 1, wantErr: true},
		{name: "empty", body: nil, size: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := tt.size
			if size == 0 && tt.body != nil {
				size = int64(len(tt.body))
			}
			img, err := SniffImage(bytes.NewReader(tt.body), size)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, img.ContentType)
			assert.Equal(t, tt.wantExt, img.Ext)

			// The sniffed bytes are handed back in front of the rest of the body.
			stored, err := io.ReadAll(img.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, stored)
		})
	}
}

func TestSniffImage_LargeBodyIsPreserved(t *testing.T) {
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x42}, 2*sniffLen)...)

	img, err := SniffImage(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	stored, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, body, stored)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(".PNG")
	assert.True(t, strings.HasPrefix(key, "uploads/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, ObjectKey(".PNG"))
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.acme.io", publicBase(Config{PublicURL: "https://cdn.acme.io/"}))
	assert.Equal(t, "http://localhost:9000/assetverse", publicBase(Config{Endpoint: "localhost:9000", Bucket: "assetverse"}))
	assert.Equal(t, "https://s3.acme.io/b", publicBase(Config{Endpoint: "s3.acme.io", Bucket: "b", UseSSL: true}))
}
