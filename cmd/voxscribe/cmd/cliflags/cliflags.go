// Package cliflags holds the persistent flags shared by every subcommand.
package cliflags

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxscribe/internal/app/client"
	"voxscribe/internal/app/logging"
	"voxscribe/internal/app/session"
	"voxscribe/internal/config"
)

const (
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagServer  = "server"
	FlagToken   = "token"
	FlagUser    = "user"

	DefaultServer = "http://localhost:8081"
)

// Register adds the persistent flags to root.
func Register(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.BoolP(FlagVerbose, "V", false, "verbose output")
	flags.StringP(FlagConfig, "c", "", "config file (default ./"+config.DefaultConfigFile+" when present)")
	flags.String(FlagServer, config.Getenv("VOXSCRIBE_SERVER", DefaultServer), "voxscribe server URL")
	flags.String(FlagToken, config.Getenv("VOXSCRIBE_TOKEN", ""), "session token")
	flags.String(FlagUser, config.Getenv("VOXSCRIBE_USER", ""), "user id sent as X-User-ID")
}

// Logger builds the CLI logger. --verbose switches to development output.
func Logger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool(FlagVerbose)
	return logging.MustNewLogger(verbose)
}

// Config loads the service configuration named by --config.
func Config(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(FlagConfig)
	return config.Load(path)
}

// Client builds an API client from --server, --token and --user.
func Client(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString(FlagServer)
	token, _ := cmd.Flags().GetString(FlagToken)
	user, _ := cmd.Flags().GetString(FlagUser)

	var opts []client.Option
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	if user != "" {
		opts = append(opts, client.WithUserID(user))
	}
	return client.New(server, opts...)
}

// Session is the caller as seen by the CLI. Without --user the session is
// anonymous and results are not saved.
func Session(cmd *cobra.Command) session.Session {
	user, _ := cmd.Flags().GetString(FlagUser)
	return session.Session{UserID: user}
}
