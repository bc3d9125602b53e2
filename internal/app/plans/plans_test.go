package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_UnknownFallsBackToFree(t *testing.T) {
	assert.Equal(t, Free, Get("platinum").ID)
	assert.Equal(t, Pro, Get(Pro).ID)

	_, ok := Lookup("platinum")
	assert.False(t, ok)
}

func TestCanPerform(t *testing.T) {
	tests := []struct {
		plan   string
		action string
		usage  Usage
		want   bool
	}{
		{Free, ActionTranscribe, Usage{TranscriptionsThisMonth: 9}, true},
		{Free, ActionTranscribe, Usage{TranscriptionsThisMonth: 10}, false},
		{Enterprise, ActionTranscribe, Usage{TranscriptionsThisMonth: 1_000_000}, true},
		{Free, ActionSpeakerDiarization, Usage{}, false},
		{Pro, ActionSpeakerDiarization, Usage{}, true},
		{Free, ActionExportPDF, Usage{}, false},
		{Pro, ActionExportDOCX, Usage{}, true},
		{Free, ActionExportXLSX, Usage{}, false},
		{Free, ActionTimestamps, Usage{}, true},
		{Free, ActionPriorityQueue, Usage{}, false},
		{Free, "something_else", Usage{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.plan+"/"+tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.plan, tt.action, tt.usage))
		})
	}
}

func TestRemainingFor(t *testing.T) {
	assert.Equal(t, Remaining{Remaining: 7, Used: 3, Total: 10, Percentage: 70}, RemainingFor(Free, Usage{TranscriptionsThisMonth: 3}))
	assert.Equal(t, Remaining{Remaining: 0, Used: 12, Total: 10, Percentage: 0}, RemainingFor(Free, Usage{TranscriptionsThisMonth: 12}))
	assert.Equal(t, Remaining{Unlimited: true, Remaining: -1, Total: -1, Percentage: 100}, RemainingFor(Enterprise, Usage{}))
}

func TestAllowsFileSize(t *testing.T) {
	assert.True(t, AllowsFileSize(Free, 100*1024*1024))
	assert.False(t, AllowsFileSize(Free, 100*1024*1024+1))
	assert.True(t, AllowsFileSize(Enterprise, 1<<40))
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	assert.Equal(t, "Free", Get(Free).Name)
	assert.Len(t, All(), 3)
}
