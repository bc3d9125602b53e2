package transcribe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/model"
)

var fastPoll = PollConfig{Interval: 5 * time.Millisecond, Timeout: 200 * time.Millisecond}

func TestMapLanguage(t *testing.T) {
	tests := map[string]string{
		"":      "pt",
		"pt":    "pt",
		"EN":    "en",
		"es":    "es",
		"fr":    "fr",
		"de":    "de",
		"it":    "it",
		"pt-BR": "pt",
		"en_US": "en",
		"ja":    "pt",
		" de ":  "de",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapLanguage(in), "input %q", in)
	}
}

func TestPoll_Completes(t *testing.T) {
	v := &fakeVendor{statuses: []*provider.JobResult{
		{Status: model.JobQueued},
		processing(),
		{Status: model.JobCompleted, Text: "pronto"},
	}}

	var seen []model.JobStatus
	res, err := Poll(context.Background(), v, "job-1", fastPoll, nil, func(s model.JobStatus) {
		seen = append(seen, s)
	})
	require.NoError(t, err)
	assert.Equal(t, "pronto", res.Text)
	assert.Equal(t, []model.JobStatus{model.JobQueued, model.JobProcessing, model.JobCompleted}, seen)
}

func TestPoll_VendorError(t *testing.T) {
	v := &fakeVendor{statuses: []*provider.JobResult{
		{Status: model.JobError, Error: "audio inválido"},
	}}

	_, err := Poll(context.Background(), v, "job-1", fastPoll, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "Erro na transcrição: audio inválido", err.Error())
	assert.Equal(t, provider.CodeVendorError, provider.Code(err))
	assert.Equal(t, 1, v.pollCount())
}

func TestPoll_TimesOut(t *testing.T) {
	v := &fakeVendor{statuses: []*provider.JobResult{processing()}}

	done := make(chan error, 1)
	go func() {
		_, err := Poll(context.Background(), v, "job-1",
			PollConfig{Interval: 5 * time.Millisecond, Timeout: 40 * time.Millisecond}, nil, nil)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, provider.CodeTimeout, provider.Code(err))
		assert.Equal(t, "Timeout: transcrição demorou mais de 40ms", err.Error())
		assert.Greater(t, v.pollCount(), 1)
	case <-time.After(2 * time.Second):
		t.Fatal("poll did not honour its deadline")
	}
}

func TestTimeoutMessage(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    string
	}{
		{10 * time.Minute, "Timeout: transcrição demorou mais de 10 minutos"},
		{2 * time.Minute, "Timeout: transcrição demorou mais de 2 minutos"},
		{time.Minute, "Timeout: transcrição demorou mais de 1 minuto"},
		{90 * time.Second, "Timeout: transcrição demorou mais de 90 segundos"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeoutMessage(tt.timeout))
	}
}

func TestPoll_Canceled(t *testing.T) {
	v := &fakeVendor{statuses: []*provider.JobResult{processing()}}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Poll(ctx, v, "job-1", PollConfig{Interval: 10 * time.Millisecond, Timeout: time.Minute}, nil, nil)
		done <- err
	}()
	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Equal(t, provider.CodeCanceled, provider.Code(err))
	case <-time.After(2 * time.Second):
		t.Fatal("poll ignored cancellation")
	}
}

func TestReshape(t *testing.T) {
	utterances := []provider.Utterance{
		{StartMs: 2500, EndMs: 4000, Text: " segundo ", Speaker: "B", Confidence: ptr(0.8)},
		{StartMs: 0, EndMs: 2500, Text: "primeiro", Speaker: "A", Confidence: ptr(0.9)},
	}

	segs := Reshape(utterances, true)
	require.Len(t, segs, 2)
	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 2.5, segs[0].End)
	assert.Equal(t, "Speaker A", segs[0].Speaker)
	assert.Equal(t, "segundo", segs[1].Text)
	assert.Equal(t, "Speaker B", segs[1].Speaker)
	for _, s := range segs {
		assert.GreaterOrEqual(t, s.End, s.Start)
	}

	plain := Reshape(utterances, false)
	for _, s := range plain {
		assert.Empty(t, s.Speaker)
	}
	assert.Nil(t, Reshape(nil, true))
}

func TestPipeline_Run(t *testing.T) {
	utterances := []provider.Utterance{
		{StartMs: 0, EndMs: 1000, Text: "Oi.", Speaker: "A"},
		{StartMs: 1000, EndMs: 2000, Text: "Olá.", Speaker: "B"},
	}
	completed := &provider.JobResult{Status: model.JobCompleted, Text: "Oi. Olá.", Utterances: utterances, AudioDurationSec: 2}

	tests := []struct {
		name        string
		in          Input
		job         *provider.JobResult
		wantSegs    int
		wantSpeaker bool
		wantApprox  bool
	}{
		{
			name:     "plain text without diarization",
			in:       Input{Language: "pt"},
			job:      completed,
			wantSegs: 0,
		},
		{
			name:        "diarization with utterances",
			in:          Input{Language: "pt-BR", Diarization: true},
			job:         completed,
			wantSegs:    2,
			wantSpeaker: true,
		},
		{
			name:     "diarization without utterances",
			in:       Input{Diarization: true},
			job:      &provider.JobResult{Status: model.JobCompleted, Text: "só texto"},
			wantSegs: 0,
		},
		{
			name:       "approximate timestamps",
			in:         Input{Timestamps: true},
			job:        &provider.JobResult{Status: model.JobCompleted, Text: "Primeira. Segunda."},
			wantSegs:   2,
			wantApprox: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVendor{statuses: []*provider.JobResult{processing(), tt.job}}
			p := NewPipeline(v, fastPoll, nil, nil)
			tt.in.Audio = strings.NewReader("audio-bytes")

			var seen []model.JobStatus
			res, err := p.Run(context.Background(), tt.in, func(s model.JobStatus) { seen = append(seen, s) })
			require.NoError(t, err)

			assert.Equal(t, "pt", res.Language)
			assert.Equal(t, "pt", v.lastReq.LanguageCode)
			assert.Equal(t, tt.in.Diarization, v.lastReq.SpeakerLabels)
			assert.Equal(t, "audio-bytes", string(v.uploaded))
			assert.Equal(t, model.JobQueued, seen[0])
			assert.Len(t, res.Segments, tt.wantSegs)
			assert.Equal(t, tt.wantApprox, res.ApproximateSegments)
			for _, s := range res.Segments {
				if tt.wantSpeaker {
					assert.NotEmpty(t, s.Speaker)
				} else {
					assert.Empty(t, s.Speaker)
				}
			}
		})
	}
}

func TestPipeline_RunErrors(t *testing.T) {
	uploadErr := provider.NewError("fake", provider.CodeUploadFailed, "Upload falhou: 500 - boom")

	v := &fakeVendor{uploadErr: uploadErr}
	_, err := NewPipeline(v, fastPoll, nil, nil).Run(context.Background(), Input{Audio: strings.NewReader("x")}, nil)
	assert.Equal(t, "Upload falhou: 500 - boom", err.Error())

	_, err = NewPipeline(&fakeVendor{}, fastPoll, nil, nil).Run(context.Background(), Input{}, nil)
	assert.Equal(t, "Nenhum arquivo foi enviado", err.Error())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v = &fakeVendor{uploadErr: context.Canceled}
	_, err = NewPipeline(v, fastPoll, nil, nil).Run(ctx, Input{Audio: strings.NewReader("x")}, nil)
	assert.Equal(t, provider.CodeCanceled, provider.Code(err))

	expired, cancelExpired := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancelExpired()
	<-expired.Done()
	v = &fakeVendor{uploadErr: uploadErr}
	_, err = NewPipeline(v, fastPoll, nil, nil).Run(expired, Input{Audio: strings.NewReader("x")}, nil)
	assert.Equal(t, provider.CodeTimeout, provider.Code(err))
	assert.Equal(t, TimeoutMessage(fastPoll.Timeout), err.Error())
}
