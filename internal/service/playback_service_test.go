package service

import (
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideo = "clip [abc].mp4"

func mp4Bytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte("\x00\x00\x00\x18ftypisom"))
	for i := 12; i < size; i++ {
		data[i] = byte(i % 251)
	}
	return data
}

func newPlaybackService(t *testing.T, data []byte) *PlaybackService {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, filepath.Join("downloads", testVideo), data, 0644))
	sm := storage.NewManager(&model.StorageConfig{DownloadDir: "downloads"}, fsys)
	return NewPlaybackService(sm)
}

func readAll(t *testing.T, p *Playback) []byte {
	t.Helper()
	defer p.Body.Close()
	body, err := io.ReadAll(p.Body)
	require.NoError(t, err)
	return body
}

func TestPlaybackWholeFile(t *testing.T) {
	data := mp4Bytes(1000)
	svc := newPlaybackService(t, data)

	p, err := svc.Open(testVideo, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, p.Status)
	assert.EqualValues(t, 1000, p.Length)
	assert.Equal(t, "video/mp4", p.ContentType)
	assert.Empty(t, p.ContentRange())
	assert.Equal(t, data, readAll(t, p))
}

func TestPlaybackRanges(t *testing.T) {
	data := mp4Bytes(1000)

	tests := []struct {
		name         string
		header       string
		status       int
		start, end   int
		contentRange string
	}{
		{"open ended from zero", "bytes=0-", http.StatusPartialContent, 0, 1000, "bytes 0-999/1000"},
		{"closed", "bytes=100-199", http.StatusPartialContent, 100, 200, "bytes 100-199/1000"},
		{"single byte", "bytes=999-999", http.StatusPartialContent, 999, 1000, "bytes 999-999/1000"},
		{"end clamped", "bytes=900-5000", http.StatusPartialContent, 900, 1000, "bytes 900-999/1000"},
		{"suffix", "bytes=-10", http.StatusPartialContent, 990, 1000, "bytes 990-999/1000"},
		{"suffix longer than file", "bytes=-5000", http.StatusPartialContent, 0, 1000, "bytes 0-999/1000"},
		{"wrong unit", "items=0-10", http.StatusOK, 0, 1000, ""},
		{"not numeric", "bytes=abc-def", http.StatusOK, 0, 1000, ""},
		{"end before start", "bytes=200-100", http.StatusOK, 0, 1000, ""},
		{"multiple ranges", "bytes=0-1,5-6", http.StatusOK, 0, 1000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newPlaybackService(t, data)
			p, err := svc.Open(testVideo, tt.header)
			require.NoError(t, err)

			assert.Equal(t, tt.status, p.Status)
			assert.EqualValues(t, tt.end-tt.start, p.Length)
			assert.Equal(t, tt.contentRange, p.ContentRange())
			assert.Equal(t, data[tt.start:tt.end], readAll(t, p))
		})
	}
}

func TestPlaybackUnsatisfiable(t *testing.T) {
	svc := newPlaybackService(t, mp4Bytes(1000))

	for _, header := range []string{"bytes=1000-", "bytes=5000-6000", "bytes=-0"} {
		p, err := svc.Open(testVideo, header)
		assert.Nil(t, p)

		var rangeErr *RangeError
		require.ErrorAs(t, err, &rangeErr, header)
		assert.Equal(t, "bytes */1000", rangeErr.ContentRange())
		assert.Equal(t, apperr.RangeNotSatisfiable, apperr.KindOf(err))
	}
}

func TestPlaybackMissingFile(t *testing.T) {
	svc := newPlaybackService(t, mp4Bytes(10))

	for _, name := range []string{"missing.mp4", "../secret", "a/b.mp4", ""} {
		p, err := svc.Open(name, "bytes=0-")
		assert.Nil(t, p)
		assert.Equal(t, apperr.FileNotFound, apperr.KindOf(err), name)
	}
}

func TestParseRangeEmptyFile(t *testing.T) {
	_, _, outcome := ParseRange("bytes=0-", 0)
	assert.Equal(t, RangeUnsatisfiable, outcome)

	_, _, outcome = ParseRange("", 0)
	assert.Equal(t, RangeNone, outcome)
}
