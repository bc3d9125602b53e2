// Package export renders transcripts and history into downloadable files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/util/text"
)

// Format is an export file type.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
	FormatSRT  Format = "srt"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for formats no renderer exists for.
type ErrUnsupportedFormat struct {
	Format string
}

func (e ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported export format %q (use txt, json, srt or xlsx)", e.Format)
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTXT, FormatJSON, FormatSRT, FormatXLSX:
		return f, nil
	default:
		return "", ErrUnsupportedFormat{Format: s}
	}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatSRT:
		return "application/x-subrip"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Document is a single transcript to export.
type Document struct {
	Text     string
	Segments []model.TranscriptSegment
	Language string
	FileName string
}

type jsonDocument struct {
	Transcription  string                    `json:"transcription"`
	Timestamp      string                    `json:"timestamp"`
	WordCount      int                       `json:"word_count"`
	CharacterCount int                       `json:"character_count"`
	Language       string                    `json:"language,omitempty"`
	Segments       []model.TranscriptSegment `json:"segments,omitempty"`
}

// Transcript writes doc to w in format f. now stamps the JSON export.
func Transcript(w io.Writer, f Format, doc Document, now time.Time) error {
	switch f {
	case FormatTXT:
		return writeTXT(w, doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonDocument{
			Transcription:  doc.Text,
			Timestamp:      now.UTC().Format(time.RFC3339Nano),
			WordCount:      text.CountWords(doc.Text),
			CharacterCount: text.CountCharacters(doc.Text),
			Language:       doc.Language,
			Segments:       doc.Segments,
		})
	case FormatSRT:
		return writeSRT(w, doc)
	case FormatXLSX:
		return History(w, []model.TranscriptionRecord{{
			FileName:      doc.FileName,
			Transcription: doc.Text,
			Language:      doc.Language,
			WordCount:     text.CountWords(doc.Text),
			CharCount:     text.CountCharacters(doc.Text),
			CreatedAt:     now,
		}})
	default:
		return ErrUnsupportedFormat{Format: string(f)}
	}
}

func writeTXT(w io.Writer, doc Document) error {
	if len(doc.Segments) == 0 {
		_, err := io.WriteString(w, doc.Text)
		return err
	}
	var b strings.Builder
	for _, s := range doc.Segments {
		b.WriteString("[" + text.FormatTimestamp(s.Start) + "]")
		if s.Speaker != "" {
			b.WriteString(" " + s.Speaker + ":")
		}
		b.WriteString(" " + s.Text + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSRT(w io.Writer, doc Document) error {
	segs := doc.Segments
	if len(segs) == 0 && doc.Text != "" {
		segs = []model.TranscriptSegment{{Start: 0, End: 0, Text: doc.Text}}
	}
	var b strings.Builder
	for i, s := range segs {
		line := s.Text
		if s.Speaker != "" {
			line = s.Speaker + ": " + line
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1,
			text.FormatSRTTimestamp(s.Start), text.FormatSRTTimestamp(s.End), line)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// History writes records as an Excel workbook.
func History(w io.Writer, records []model.TranscriptionRecord) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"ID", "Created At", "File Name", "Language", "Words", "Characters", "Duration (s)", "Diarization", "Transcription"} {
		header.AddCell().Value = h
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().Value = r.ID
		row.AddCell().Value = r.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = r.FileName
		row.AddCell().Value = r.Language
		row.AddCell().SetInt(r.WordCount)
		row.AddCell().SetInt(r.CharCount)
		row.AddCell().Value = fmt.Sprintf("%.2f", r.DurationSec)
		row.AddCell().SetBool(r.HasDiarization)
		row.AddCell().Value = r.Transcription
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName builds a download name for base in format f.
func FileName(base string, f Format) string {
	base = strings.TrimSpace(base)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "transcricao"
	}
	return base + "." + string(f)
}
