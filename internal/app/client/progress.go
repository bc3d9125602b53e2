package client

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressConfig controls terminal rendering.
type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressRenderer draws one bar per phase. Update is a ProgressFunc.
type ProgressRenderer struct {
	container *mpb.Progress
	enabled   bool

	mu   sync.Mutex
	bars map[State]*mpb.Bar
}

var phaseLabels = map[State]string{
	StateUploading:    "Enviando",
	StateTranscribing: "Transcrevendo",
}

// NewProgressRenderer creates a renderer. A disabled renderer ignores all
// updates.
func NewProgressRenderer(config ProgressConfig) *ProgressRenderer {
	if !config.Enabled {
		return &ProgressRenderer{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	return &ProgressRenderer{
		container: mpb.New(
			mpb.WithOutput(writer),
			mpb.WithRefreshRate(120*time.Millisecond),
		),
		enabled: true,
		bars:    make(map[State]*mpb.Bar),
	}
}

func (r *ProgressRenderer) bar(state State) *mpb.Bar {
	if b, ok := r.bars[state]; ok {
		return b
	}
	label := phaseLabels[state]
	b := r.container.AddBar(100,
		mpb.PrependDecorators(
			decor.Name(label+" ", decor.WC{W: len(label) + 1, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WCSyncSpace), " ✓"),
		),
	)
	r.bars[state] = b
	return b
}

// Update renders p.
func (r *ProgressRenderer) Update(p Progress) {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	switch p.State {
	case StateUploading, StateTranscribing:
		b := r.bar(p.State)
		b.SetCurrent(int64(p.Percent))
		if p.Percent >= 100 {
			b.SetTotal(100, true)
		}
	case StateError:
		for _, b := range r.bars {
			if !b.Completed() {
				b.Abort(false)
			}
		}
	}
}

// Wait blocks until every bar has finished rendering.
func (r *ProgressRenderer) Wait() {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	for _, b := range r.bars {
		if !b.Completed() {
			b.Abort(false)
		}
	}
	r.mu.Unlock()
	r.container.Wait()
}
