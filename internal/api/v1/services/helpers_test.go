package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/session"
	"voxscribe/internal/app/testutil"
	"voxscribe/internal/app/transcribe"
)

var testPoll = transcribe.PollConfig{Interval: time.Millisecond, Timeout: 2 * time.Second}

func userCtx(userID, plan string) context.Context {
	return session.WithSession(context.Background(), session.Session{UserID: userID, Plan: plan})
}

func audioRequest() *dto.TranscribeRequest {
	return &dto.TranscribeRequest{
		File:        bytes.NewReader(testutil.WAVHeader),
		FileName:    "reuniao.wav",
		FileSize:    int64(len(testutil.WAVHeader)),
		ContentType: "audio/wav",
		Language:    "pt-BR",
	}
}

func newPipeline(v *testutil.ScriptedVendor) *transcribe.Pipeline {
	return transcribe.NewPipeline(v, testPoll, nil, nil)
}

func requireKind(t *testing.T, err error, kind errors.ErrorKind) *errors.APIError {
	t.Helper()
	require.Error(t, err)
	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr), "expected APIError, got %T: %v", err, err)
	require.Equal(t, kind, apiErr.Kind)
	return apiErr
}
