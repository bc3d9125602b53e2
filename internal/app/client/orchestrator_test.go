package client

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/session"
)

type fakeAPI struct {
	mu      sync.Mutex
	resp    *TranscribeResponse
	err     error
	release chan struct{}
	saved   []model.TranscriptionRecord
	saveErr error
}

func (f *fakeAPI) Transcribe(ctx context.Context, audio io.Reader, name string, opts Options) (*TranscribeResponse, error) {
	_, _ = io.Copy(io.Discard, audio)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

func (f *fakeAPI) SaveHistory(ctx context.Context, rec model.TranscriptionRecord) (*model.TranscriptionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, rec)
	return &rec, nil
}

type recorder struct {
	mu     sync.Mutex
	events []Progress
}

func (r *recorder) record(p Progress) {
	r.mu.Lock()
	r.events = append(r.events, p)
	r.mu.Unlock()
}

func (r *recorder) percents(state State) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, e := range r.events {
		if e.State == state {
			out = append(out, e.Percent)
		}
	}
	return out
}

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("RIFFfake"), 0o644))
	return path
}

func newTestOrchestrator(api API, sess session.Session) *Orchestrator {
	o := NewOrchestrator(api, sess, nil)
	o.step = time.Millisecond
	o.jitter = func() int { return 7 }
	return o
}

func TestRunAnonymousDoesNotSave(t *testing.T) {
	api := &fakeAPI{resp: &TranscribeResponse{Success: true, Text: "olá mundo", Language: "pt"}}
	o := newTestOrchestrator(api, session.Session{})
	rec := &recorder{}

	out, err := o.Run(context.Background(), writeAudio(t, "a.wav"), Options{Language: "pt"}, rec.record)
	require.NoError(t, err)

	assert.Equal(t, "olá mundo", out.Text)
	assert.Equal(t, 2, out.WordCount)
	assert.Equal(t, 9, out.CharCount)
	assert.Nil(t, out.Record)
	assert.Empty(t, api.saved)
	assert.Equal(t, StateDone, o.State())

	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, rec.percents(StateUploading))
	transcribing := rec.percents(StateTranscribing)
	require.NotEmpty(t, transcribing)
	assert.Equal(t, 100, transcribing[len(transcribing)-1])
	assert.Equal(t, []int{100}, rec.percents(StateDone))
}

func TestRunIndeterminateProgressCapped(t *testing.T) {
	api := &fakeAPI{
		resp:    &TranscribeResponse{Success: true, Text: "ok"},
		release: make(chan struct{}),
	}
	o := newTestOrchestrator(api, session.Session{})
	rec := &recorder{}

	go func() {
		for len(rec.percents(StateTranscribing)) <= 20 {
			time.Sleep(time.Millisecond)
		}
		close(api.release)
	}()

	_, err := o.Run(context.Background(), writeAudio(t, "a.mp3"), Options{}, rec.record)
	require.NoError(t, err)

	p := rec.percents(StateTranscribing)
	for _, v := range p[:len(p)-1] {
		assert.LessOrEqual(t, v, 90)
	}
	assert.Contains(t, p, 90)
	assert.Equal(t, 100, p[len(p)-1])
}

func TestRunAuthenticatedSaves(t *testing.T) {
	api := &fakeAPI{resp: &TranscribeResponse{
		Success:  true,
		Text:     "um dois três",
		Language: "pt",
		Segments: []model.TranscriptSegment{{Start: 0, End: 1, Text: "um dois três", Speaker: "Speaker A"}},
	}}
	o := newTestOrchestrator(api, session.Session{UserID: "user-1"})

	out, err := o.Run(context.Background(), writeAudio(t, "Reunião.M4A"), Options{Diarization: true}, nil)
	require.NoError(t, err)
	require.NotNil(t, out.Record)
	require.Len(t, api.saved, 1)

	saved := api.saved[0]
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, "Reunião.M4A", saved.FileName)
	assert.Equal(t, "audio/m4a", saved.FileType)
	assert.True(t, saved.HasDiarization)
	assert.Contains(t, saved.Metadata, "segments")
}

func TestRunSaveFailureKeepsTranscript(t *testing.T) {
	api := &fakeAPI{
		resp:    &TranscribeResponse{Success: true, Text: "texto"},
		saveErr: errors.New("history unavailable"),
	}
	o := newTestOrchestrator(api, session.Session{UserID: "user-1"})

	out, err := o.Run(context.Background(), writeAudio(t, "a.ogg"), Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "texto", out.Text)
	assert.EqualError(t, out.SaveErr, "history unavailable")
	assert.Equal(t, StateDone, o.State())
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		api     *fakeAPI
		wantErr string
	}{
		{
			name:    "no file",
			path:    func(*testing.T) string { return "" },
			api:     &fakeAPI{},
			wantErr: "Selecione um arquivo primeiro",
		},
		{
			name:    "unsupported format",
			path:    func(t *testing.T) string { return writeAudio(t, "notes.txt") },
			api:     &fakeAPI{},
			wantErr: "Formato não suportado. Use: MP3, WAV, M4A, FLAC ou OGG",
		},
		{
			name:    "proxy error",
			path:    func(t *testing.T) string { return writeAudio(t, "a.flac") },
			api:     &fakeAPI{err: errors.New("Erro HTTP: 500")},
			wantErr: "Erro HTTP: 500",
		},
		{
			name:    "empty text",
			path:    func(t *testing.T) string { return writeAudio(t, "a.flac") },
			api:     &fakeAPI{resp: &TranscribeResponse{Success: true}},
			wantErr: "Nenhum texto foi transcrito",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrchestrator(tt.api, session.Session{UserID: "u"})
			rec := &recorder{}

			out, err := o.Run(context.Background(), tt.path(t), Options{}, rec.record)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Nil(t, out)
			assert.Equal(t, StateError, o.State())
			assert.Len(t, rec.percents(StateError), 1)
			assert.Empty(t, tt.api.saved)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	api := &fakeAPI{resp: &TranscribeResponse{Success: true, Text: "x"}, release: make(chan struct{})}
	o := newTestOrchestrator(api, session.Session{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := o.Run(ctx, writeAudio(t, "a.wav"), Options{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateError, o.State())

	o.Reset()
	assert.Equal(t, StateIdle, o.State())
}

func TestProgressRendererDisabled(t *testing.T) {
	r := NewProgressRenderer(ProgressConfig{Enabled: false})
	r.Update(Progress{State: StateUploading, Percent: 50})
	r.Wait()
}

func TestProgressRendererEnabled(t *testing.T) {
	r := NewProgressRenderer(ProgressConfig{Enabled: true, Writer: io.Discard})
	for p := 0; p <= 100; p += 10 {
		r.Update(Progress{State: StateUploading, Percent: p})
	}
	r.Update(Progress{State: StateTranscribing, Percent: 40})
	r.Update(Progress{State: StateError})
	r.Wait()
}
