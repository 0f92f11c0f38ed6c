package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypeForMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", "image"},
		{"image/png", "image"},
		{"image/webp", "image"},
		{"IMAGE/PNG", "image"},
		{" image/gif ", "image"},
		{"application/pdf", "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			got, err := FileTypeForMime(tt.mime)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileTypeForMimeRejected(t *testing.T) {
	for _, mime := range []string{"video/mp4", "text/plain", "application/zip", ""} {
		_, err := FileTypeForMime(mime)
		assert.Error(t, err, "mime %q should be rejected", mime)
	}
}

func TestValidateFileName(t *testing.T) {
	assert.NoError(t, ValidateFileName("vacation photo.jpg"))
	assert.Error(t, ValidateFileName(""))
	assert.Error(t, ValidateFileName("bad/name.pdf"))
	assert.Error(t, ValidateFileName("what?.png"))

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateFileName(string(long)))
}
