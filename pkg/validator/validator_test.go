package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	allowed := []string{"youtube.com", " youtu.be ", ""}

	tests := []struct {
		name    string
		url     string
		domains []string
		want    bool
	}{
		{"exact host", "https://youtube.com/watch?v=abc", allowed, true},
		{"www prefix", "https://www.youtube.com/watch?v=abc", allowed, true},
		{"subdomain", "https://m.youtube.com/watch?v=abc", allowed, true},
		{"short host", "https://youtu.be/abc", allowed, true},
		{"lookalike host", "https://notyoutube.com/watch", allowed, false},
		{"other host", "https://vimeo.com/1", allowed, false},
		{"empty allow list", "https://vimeo.com/1", nil, true},
		{"missing scheme", "youtube.com/watch?v=abc", nil, false},
		{"ftp scheme", "ftp://youtube.com/x", nil, false},
		{"empty", "", nil, false},
		{"garbage", "%zz", nil, false},
		{"no host", "https:///path", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateURL(tt.url, tt.domains))
		})
	}
}

func TestValidateFormatID(t *testing.T) {
	assert.True(t, ValidateFormatID("137+140", 50))
	assert.True(t, ValidateFormatID("bestvideo[height<=720]+bestaudio/best", 0))
	assert.False(t, ValidateFormatID("", 50))
	assert.False(t, ValidateFormatID("   ", 50))
	assert.False(t, ValidateFormatID(strings.Repeat("a", 51), 50))
	assert.False(t, ValidateFormatID("22\n--exec rm", 50))
}

func TestIsSafeFilename(t *testing.T) {
	assert.True(t, IsSafeFilename("My Video [abc123].mp4"))
	assert.False(t, IsSafeFilename(""))
	assert.False(t, IsSafeFilename(".."))
	assert.False(t, IsSafeFilename("../etc/passwd"))
	assert.False(t, IsSafeFilename("sub/file.mp4"))
	assert.False(t, IsSafeFilename(`..\win.ini`))
}
