// Package plans holds the subscription catalogue and the limit checks
// derived from it.
package plans

import (
	"math"

	"github.com/samber/lo"
)

// Unlimited marks a limit without a ceiling.
const Unlimited = -1

const (
	Free       = "free"
	Pro        = "pro"
	Enterprise = "enterprise"
)

// Actions understood by CanPerform.
const (
	ActionTranscribe         = "transcribe"
	ActionExportPDF          = "export_pdf"
	ActionExportDOCX         = "export_docx"
	ActionExportXLSX         = "export_xlsx"
	ActionSpeakerDiarization = "speaker_diarization"
	ActionTimestamps         = "timestamps"
	ActionPriorityQueue      = "priority_queue"
)

// Limits are the quotas and feature switches of a plan.
type Limits struct {
	TranscriptionsPerMonth  int  `json:"transcriptions_per_month"`
	MaxAudioDurationMinutes int  `json:"max_audio_duration_minutes"`
	MaxFileSizeMB           int  `json:"max_file_size_mb"`
	CanExportPDF            bool `json:"can_export_pdf"`
	CanExportDOCX           bool `json:"can_export_docx"`
	CanExportXLSX           bool `json:"can_export_xlsx"`
	HasSpeakerDiarization   bool `json:"has_speaker_diarization"`
	HasTimestamps           bool `json:"has_timestamps"`
	HasPriorityQueue        bool `json:"has_priority_queue"`
}

// Plan is one catalogue entry. A nil Price means custom pricing.
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Limits      Limits   `json:"limits"`
	Badge       string   `json:"badge,omitempty"`
	Popular     bool     `json:"popular"`
}

// Usage is what a user consumed in the current period.
type Usage struct {
	TranscriptionsThisMonth int `json:"transcriptions_this_month"`
}

// Remaining describes the monthly quota left.
type Remaining struct {
	Unlimited  bool `json:"unlimited"`
	Remaining  int  `json:"remaining"`
	Used       int  `json:"used"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
}

func price(p float64) *float64 { return &p }

var catalogue = []Plan{
	{
		ID:          Free,
		Name:        "Free",
		Price:       price(0),
		Currency:    "BRL",
		Interval:    "month",
		Description: "Perfeito para começar",
		Features: []string{
			"10 transcrições por mês",
			"Até 30 minutos por áudio",
			"Formatos: TXT, JSON",
			"Identificação de idioma",
			"Suporte por email",
		},
		Limits: Limits{
			TranscriptionsPerMonth:  10,
			MaxAudioDurationMinutes: 30,
			MaxFileSizeMB:           100,
			HasTimestamps:           true,
		},
	},
	{
		ID:          Pro,
		Name:        "Pro",
		Price:       price(49.90),
		Currency:    "BRL",
		Interval:    "month",
		Description: "Para profissionais e criadores",
		Features: []string{
			"500 transcrições por mês",
			"Até 2 horas por áudio",
			"Todos os formatos (TXT, JSON, SRT, XLSX)",
			"Identificação de falantes",
			"Timestamps precisos",
			"Fila prioritária",
			"Suporte prioritário",
		},
		Limits: Limits{
			TranscriptionsPerMonth:  500,
			MaxAudioDurationMinutes: 120,
			MaxFileSizeMB:           500,
			CanExportPDF:            true,
			CanExportDOCX:           true,
			CanExportXLSX:           true,
			HasSpeakerDiarization:   true,
			HasTimestamps:           true,
			HasPriorityQueue:        true,
		},
		Badge:   "Mais Popular",
		Popular: true,
	},
	{
		ID:          Enterprise,
		Name:        "Enterprise",
		Currency:    "BRL",
		Interval:    "custom",
		Description: "Para empresas e equipes",
		Features: []string{
			"Transcrições ilimitadas",
			"Sem limite de duração",
			"Todos os formatos",
			"Identificação de falantes",
			"API dedicada",
			"Integração personalizada",
			"Suporte 24/7",
			"SLA garantido",
			"Gerenciamento de equipe",
		},
		Limits: Limits{
			TranscriptionsPerMonth:  Unlimited,
			MaxAudioDurationMinutes: Unlimited,
			MaxFileSizeMB:           Unlimited,
			CanExportPDF:            true,
			CanExportDOCX:           true,
			CanExportXLSX:           true,
			HasSpeakerDiarization:   true,
			HasTimestamps:           true,
			HasPriorityQueue:        true,
		},
		Badge: "Enterprise",
	},
}

// All returns the catalogue in display order.
func All() []Plan {
	return append([]Plan(nil), catalogue...)
}

// Lookup returns the plan with id and whether it exists.
func Lookup(id string) (Plan, bool) {
	return lo.Find(catalogue, func(p Plan) bool { return p.ID == id })
}

// Get returns the plan with id, or the free plan for unknown ids.
func Get(id string) Plan {
	if p, ok := Lookup(id); ok {
		return p
	}
	return catalogue[0]
}

// CanPerform reports whether a user on planID may perform action. Unknown
// actions are allowed.
func CanPerform(planID, action string, usage Usage) bool {
	l := Get(planID).Limits
	switch action {
	case ActionTranscribe:
		if l.TranscriptionsPerMonth == Unlimited {
			return true
		}
		return usage.TranscriptionsThisMonth < l.TranscriptionsPerMonth
	case ActionExportPDF:
		return l.CanExportPDF
	case ActionExportDOCX:
		return l.CanExportDOCX
	case ActionExportXLSX:
		return l.CanExportXLSX
	case ActionSpeakerDiarization:
		return l.HasSpeakerDiarization
	case ActionTimestamps:
		return l.HasTimestamps
	case ActionPriorityQueue:
		return l.HasPriorityQueue
	default:
		return true
	}
}

// RemainingFor computes the monthly quota left on planID.
func RemainingFor(planID string, usage Usage) Remaining {
	total := Get(planID).Limits.TranscriptionsPerMonth
	if total == Unlimited {
		return Remaining{Unlimited: true, Remaining: Unlimited, Total: Unlimited, Percentage: 100}
	}
	used := usage.TranscriptionsThisMonth
	left := max(0, total-used)
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(left) / float64(total) * 100))
	}
	return Remaining{Remaining: left, Used: used, Total: total, Percentage: pct}
}

// AllowsFileSize reports whether a file of size bytes fits the plan.
func AllowsFileSize(planID string, size int64) bool {
	mb := Get(planID).Limits.MaxFileSizeMB
	return mb == Unlimited || size <= int64(mb)*1024*1024
}
