package service

import (
	"context"
	"errors"
	"testing"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/engine"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/engine/enginetest"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ptr = enginetest.Ptr

func TestNormalizeFormatsSortsAndFilters(t *testing.T) {
	raw := []engine.Format{
		{FormatID: "160", Ext: "mp4", Height: ptr(144)},
		{FormatID: "137", Ext: "mp4", Height: ptr(1080), FPS: ptr(30), FileSize: ptr(1000)},
		{FormatID: "136", Ext: "mp4", Height: ptr(720), FileSizeApprox: ptr(500)},
		{FormatID: "140", Ext: "m4a"},
	}

	formats := NormalizeFormats(raw)
	heights := lo.Map(formats, func(f model.FormatOption, _ int) int { return f.Height.OrEmpty() })
	assert.Equal(t, []int{1080, 720, 144}, heights)

	assert.Equal(t, "137", formats[0].FormatID)
	fps, ok := formats[0].FPS.Get()
	assert.True(t, ok)
	assert.Equal(t, 30.0, fps)
	size, ok := formats[0].SizeBytes.Get()
	assert.True(t, ok)
	assert.EqualValues(t, 1000, size)

	size, ok = formats[1].SizeBytes.Get()
	assert.True(t, ok, "filesize_approx is used when filesize is absent")
	assert.EqualValues(t, 500, size)

	assert.False(t, formats[2].FPS.IsPresent())
	assert.False(t, formats[2].SizeBytes.IsPresent())
}

func TestNormalizeFormatsStableForEqualHeights(t *testing.T) {
	raw := []engine.Format{
		{FormatID: "a", Height: ptr(720)},
		{FormatID: "b", Height: ptr(1080)},
		{FormatID: "c", Height: ptr(720)},
	}
	ids := lo.Map(NormalizeFormats(raw), func(f model.FormatOption, _ int) string { return f.FormatID })
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestNormalizeFormatsEmpty(t *testing.T) {
	assert.Empty(t, NormalizeFormats(nil))
	assert.Empty(t, NormalizeFormats([]engine.Format{{FormatID: "140"}}))
}

func TestGetFormats(t *testing.T) {
	fake := &enginetest.Fake{Info: &engine.Info{
		Title:     "A video",
		Thumbnail: "https://img/t.jpg",
		Formats:   []engine.Format{{FormatID: "18", Ext: "mp4", Height: ptr(360)}},
	}}
	svc := NewVideoService(fake)

	meta, err := svc.GetFormats(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, "A video", meta.Title)
	assert.Equal(t, "https://img/t.jpg", meta.ThumbnailURL)
	require.Len(t, meta.Formats, 1)
	assert.Equal(t, []string{"https://youtu.be/abc"}, fake.ProbeCalls())
}

func TestGetFormatsDefaults(t *testing.T) {
	svc := NewVideoService(&enginetest.Fake{Info: &engine.Info{}})

	meta, err := svc.GetFormats(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, meta.Title)
	assert.Equal(t, "", meta.ThumbnailURL)
	assert.NotNil(t, meta.Formats)
}

func TestGetFormatsErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		err  error
		info *engine.Info
		kind apperr.Kind
	}{
		{"empty url", "", nil, nil, apperr.InvalidInput},
		{"blank url", "   ", nil, nil, apperr.InvalidInput},
		{"invalid source", "https://x/y", &engine.Error{Message: "Unsupported URL", Err: engine.ErrInvalidSource}, nil, apperr.SourceUnavailable},
		{"engine failure", "https://x/y", errors.New("boom"), nil, apperr.EngineFailure},
		{"nil info", "https://x/y", nil, nil, apperr.EngineFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &enginetest.Fake{Info: tt.info, ProbeErr: tt.err}
			meta, err := NewVideoService(fake).GetFormats(context.Background(), tt.url)
			assert.Nil(t, meta)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestGetFormatsSkipsEngineForEmptyURL(t *testing.T) {
	fake := &enginetest.Fake{}
	_, _ = NewVideoService(fake).GetFormats(context.Background(), "")
	assert.Empty(t, fake.ProbeCalls())
}
