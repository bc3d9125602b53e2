package whisper

import (
	"voxscribe/internal/app/api/provider"
)

func init() {
	provider.DefaultRegistry().MustRegister(Name, EnvAPIKey, func(cfg provider.Config) (provider.Vendor, error) {
		return NewRemoteTranscriber(cfg)
	})
}
