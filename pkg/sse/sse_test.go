package sse

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, map[string]string{"status": "finished", "message": "line1\nline2"}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "data: {"))
	assert.True(t, strings.HasSuffix(out, "}\n\n"))
	// embedded newlines are escaped by JSON so the frame stays on one line
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestEncodeSequence(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		require.NoError(t, Encode(&buf, map[string]int{"n": i}))
	}

	frames := strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n")
	assert.Equal(t, []string{`data: {"n":0}`, `data: {"n":1}`, `data: {"n":2}`}, frames)
}

func TestEncodeRejectsUnmarshalable(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, make(chan int)))
	assert.Zero(t, buf.Len())
}

func TestPrepareHeaders(t *testing.T) {
	h := http.Header{}
	PrepareHeaders(h)
	assert.Equal(t, ContentType, h.Get("Content-Type"))
	assert.Equal(t, "no-cache", h.Get("Cache-Control"))
}
