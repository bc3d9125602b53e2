package transcribe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
)

// PollConfig bounds the status loop.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultPollConfig polls every 3 seconds for up to 10 minutes.
func DefaultPollConfig() PollConfig {
	return PollConfig{Interval: 3 * time.Second, Timeout: 10 * time.Minute}
}

// TimeoutMessage reports a deadline of d to the user.
func TimeoutMessage(d time.Duration) string {
	var span string
	switch {
	case d == time.Minute:
		span = "1 minuto"
	case d > 0 && d%time.Minute == 0:
		span = fmt.Sprintf("%d minutos", int(d/time.Minute))
	case d > 0 && d%time.Second == 0:
		span = fmt.Sprintf("%d segundos", int(d/time.Second))
	default:
		span = d.String()
	}
	return "Timeout: transcrição demorou mais de " + span
}

// StatusFunc is notified after every poll with the observed status.
type StatusFunc func(status model.JobStatus)

// Poll queries the vendor until the job completes or fails. The loop ends
// with a timeout error when cfg.Timeout elapses and with a canceled error
// when ctx is canceled by the caller.
func Poll(ctx context.Context, v provider.Vendor, jobID string, cfg PollConfig, m *metrics.Metrics, onStatus StatusFunc) (*provider.JobResult, error) {
	if cfg.Interval <= 0 || cfg.Timeout <= 0 {
		cfg = DefaultPollConfig()
	}
	pollCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	for {
		res, err := v.Status(pollCtx, jobID)
		if err != nil {
			if pollCtx.Err() != nil {
				return nil, stopError(ctx, v.Name(), cfg.Timeout)
			}
			m.ObservePoll(v.Name(), "failed")
			return nil, err
		}
		m.ObservePoll(v.Name(), string(res.Status))
		if onStatus != nil {
			onStatus(res.Status)
		}

		switch res.Status {
		case model.JobCompleted:
			return res, nil
		case model.JobError:
			return nil, provider.NewError(v.Name(), provider.CodeVendorError, "Erro na transcrição: "+res.Error)
		}

		timer := time.NewTimer(cfg.Interval)
		select {
		case <-pollCtx.Done():
			timer.Stop()
			return nil, stopError(ctx, v.Name(), cfg.Timeout)
		case <-timer.C:
		}
	}
}

// stopError tells a caller cancellation apart from the poll deadline.
func stopError(parent context.Context, vendor string, timeout time.Duration) error {
	if parent.Err() != nil && !errors.Is(parent.Err(), context.DeadlineExceeded) {
		return provider.NewError(vendor, provider.CodeCanceled, "Transcrição cancelada")
	}
	return provider.NewError(vendor, provider.CodeTimeout, TimeoutMessage(timeout))
}
