package transcribe

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/model"
)

// Reshape converts vendor utterances into client segments. Offsets become
// seconds and segments are ordered by start. Speaker labels are kept only
// when diarization was requested.
func Reshape(utterances []provider.Utterance, diarization bool) []model.TranscriptSegment {
	if len(utterances) == 0 {
		return nil
	}
	segs := lo.Map(utterances, func(u provider.Utterance, _ int) model.TranscriptSegment {
		seg := model.TranscriptSegment{
			Start:      float64(u.StartMs) / 1000,
			End:        float64(u.EndMs) / 1000,
			Text:       strings.TrimSpace(u.Text),
			Confidence: u.Confidence,
		}
		if seg.End < seg.Start {
			seg.End = seg.Start
		}
		if diarization {
			seg.Speaker = speakerLabel(u.Speaker)
		}
		return seg
	})
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].Start < segs[j].Start
	})
	return segs
}

func speakerLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "?"
	}
	return "Speaker " + label
}
