package provider

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVendor struct{ name string }

func (s *stubVendor) Name() string { return s.name }
func (s *stubVendor) Upload(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	return "", nil
}
func (s *stubVendor) Submit(ctx context.Context, req SubmitRequest) (string, error) { return "", nil }
func (s *stubVendor) Status(ctx context.Context, jobID string) (*JobResult, error) { return nil, nil }

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stub", "STUB_API_KEY", func(cfg Config) (Vendor, error) {
		return &stubVendor{name: "stub"}, nil
	}))

	v, err := r.Create("stub", Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, "stub", v.Name())
	assert.Equal(t, []string{"stub"}, r.Names())
	assert.Equal(t, "STUB_API_KEY", r.EnvVar("stub"))
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	factory := func(cfg Config) (Vendor, error) { return &stubVendor{}, nil }

	assert.Error(t, r.Register("", "X", factory))
	assert.Error(t, r.Register("a", "X", nil))
	require.NoError(t, r.Register("a", "A_KEY", factory))
	assert.Error(t, r.Register("a", "A_KEY", factory))

	_, err := r.Create("missing", Config{APIKey: "k"})
	assert.Error(t, err)

	_, err = r.Create("a", Config{})
	require.Error(t, err)
	assert.Equal(t, CodeMissingAPIKey, Code(err))
	assert.Equal(t, "A_KEY não está configurada!", err.Error())
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	factory := func(cfg Config) (Vendor, error) { return &stubVendor{}, nil }
	r.MustRegister("a", "A", factory)
	assert.Panics(t, func() { r.MustRegister("a", "A", factory) })
}
