package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"voxscribe/cmd/voxscribe/cmd/cliflags"
	"voxscribe/cmd/voxscribe/cmd/history"
	"voxscribe/cmd/voxscribe/cmd/migrate"
	"voxscribe/cmd/voxscribe/cmd/serve"
	"voxscribe/cmd/voxscribe/cmd/transcribe"
	"voxscribe/cmd/voxscribe/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voxscribe",
	Short: "Audio transcription proxy with history and plans",
	Long: `voxscribe forwards audio to a speech-to-text vendor and returns the transcript.

- serve runs the HTTP service (proxy, history, profiles, plans)
- transcribe sends local files to a running server
- history and migrate maintain stored transcriptions`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(version.Cmd)

	cliflags.Register(rootCmd)
}
