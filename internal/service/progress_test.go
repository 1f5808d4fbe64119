package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch *ProgressChannel) []model.ProgressEvent {
	var out []model.ProgressEvent
	for ev := range ch.Events() {
		out = append(out, ev)
	}
	return out
}

func TestProgressChannelPreservesOrder(t *testing.T) {
	ch := NewProgressChannel(2)

	go func() {
		for i := 0; i < 100; i++ {
			ch.Push(model.Downloading(fmt.Sprintf("%d%%", i), "", "", ""))
		}
		ch.Push(model.Finished("done", "f.mp4"))
	}()

	events := drain(ch)
	require.Len(t, events, 101)
	for i := 0; i < 100; i++ {
		assert.Equal(t, fmt.Sprintf("%d%%", i), events[i].Percent)
	}
	assert.Equal(t, model.EventFinished, events[100].Status)
}

func TestProgressChannelKeepsDuplicates(t *testing.T) {
	ch := NewProgressChannel(4)
	tick := model.Downloading(" 10.0%", "1 MiB", "N/A", "N/A")
	require.True(t, ch.Push(tick))
	require.True(t, ch.Push(tick))
	require.True(t, ch.Push(model.Failed("x")))

	events := drain(ch)
	assert.Equal(t, []model.ProgressEvent{tick, tick, model.Failed("x")}, events)
}

func TestProgressChannelRejectsAfterTerminal(t *testing.T) {
	ch := NewProgressChannel(4)
	require.True(t, ch.Push(model.Failed("first")))
	assert.False(t, ch.Push(model.Finished("second", "")))
	assert.False(t, ch.Push(model.Downloading("1%", "", "", "")))

	events := drain(ch)
	assert.Equal(t, []model.ProgressEvent{model.Failed("first")}, events)
}

func TestProgressChannelAbandonUnblocksProducer(t *testing.T) {
	ch := NewProgressChannel(0)

	result := make(chan bool, 1)
	go func() {
		result <- ch.Push(model.Downloading("1%", "", "", ""))
	}()

	ch.Abandon()
	select {
	case ok := <-result:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("producer still blocked after abandon")
	}

	assert.False(t, ch.Push(model.Finished("late", "")))
	assert.NotPanics(t, ch.Abandon)

	select {
	case <-ch.Done():
	default:
		t.Fatal("done not closed")
	}
}
