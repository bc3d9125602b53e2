// Package segments builds approximate timestamped segments for transcripts
// whose vendor returned plain text only. The output is an estimate from word
// counts, not an alignment against the audio.
package segments

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/util/text"
)

// DefaultWordsPerSecond is used when the audio duration is unknown.
const DefaultWordsPerSecond = 2.5

// SplitSentences breaks s after '.', '!' and '?' runs. Empty pieces are
// dropped and surrounding whitespace is trimmed.
func SplitSentences(s string) []string {
	var (
		out []string
		b   strings.Builder
	)
	runes := []rune(s)
	for i, r := range runes {
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		out = append(out, b.String())
		b.Reset()
	}
	out = append(out, b.String())

	return lo.FilterMap(out, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
}

// Approximate splits transcript into sentences and spreads durationSec over
// them in proportion to their word counts. With durationSec <= 0 each word
// lasts 1/DefaultWordsPerSecond seconds. Segments never carry a speaker.
func Approximate(transcript string, durationSec float64) []model.TranscriptSegment {
	sentences := SplitSentences(transcript)
	if len(sentences) == 0 {
		return nil
	}

	counts := lo.Map(sentences, func(s string, _ int) int {
		return max(text.CountWords(s), 1)
	})
	totalWords := lo.Sum(counts)

	secondsPerWord := 1 / DefaultWordsPerSecond
	if durationSec > 0 {
		secondsPerWord = durationSec / float64(totalWords)
	}

	segs := make([]model.TranscriptSegment, 0, len(sentences))
	cursor := 0.0
	for i, sentence := range sentences {
		end := cursor + float64(counts[i])*secondsPerWord
		segs = append(segs, model.TranscriptSegment{
			Start: round3(cursor),
			End:   round3(end),
			Text:  sentence,
		})
		cursor = end
	}
	return segs
}

func round3(f float64) float64 {
	return float64(int64(f*1000+0.5)) / 1000
}
