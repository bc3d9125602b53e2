package transcribe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxscribe/cmd/voxscribe/cmd/cliflags"
	"voxscribe/internal/app/client"
	"voxscribe/internal/app/export"
	"voxscribe/internal/app/util/files"
)

var (
	language     string
	diarization  bool
	timestamps   bool
	format       string
	outputDir    string
	showProgress bool
)

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", "pt", "language of the audio")
	Cmd.Flags().BoolVarP(&diarization, "diarization", "d", false, "identify speakers")
	Cmd.Flags().BoolVarP(&timestamps, "timestamps", "t", false, "request timed segments")
	Cmd.Flags().StringVarP(&format, "format", "f", "txt", "output format: txt, json, srt or xlsx")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "write one file per input into this directory instead of stdout")
	Cmd.Flags().BoolVar(&showProgress, "progress", true, "show progress bars")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe FILE...",
	Short: "Transcribe local audio files through a voxscribe server",
	Long: `Transcribe local audio files through a voxscribe server.

- Files are validated locally (extension and size) before anything is sent
- With --user the transcripts are also saved to that user's history
- Files are processed one at a time; a failed file does not stop the rest`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		if outputDir != "" {
			if err := files.EnsureDir(outputDir); err != nil {
				return err
			}
		}

		logger := cliflags.Logger(cmd)
		defer logger.Sync()

		orchestrator := client.NewOrchestrator(cliflags.Client(cmd), cliflags.Session(cmd), logger)
		opts := client.Options{Language: language, Diarization: diarization, Timestamps: timestamps}

		failed := 0
		for _, path := range args {
			if err := transcribeOne(cmd, orchestrator, logger, path, opts, f); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				failed++
			}
			orchestrator.Reset()
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

func transcribeOne(cmd *cobra.Command, o *client.Orchestrator, logger *zap.Logger, path string, opts client.Options, f export.Format) error {
	renderer := client.NewProgressRenderer(client.ProgressConfig{Enabled: showProgress, Writer: cmd.ErrOrStderr()})
	out, err := o.Run(cmd.Context(), path, opts, renderer.Update)
	renderer.Wait()
	if err != nil {
		return err
	}
	if out.SaveErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Erro ao salvar no histórico: %v\n", out.SaveErr)
	}

	logger.Info("transcribed",
		zap.String("file", out.FileName),
		zap.Int("words", out.WordCount),
		zap.Int("characters", out.CharCount),
		zap.Bool("saved", out.Record != nil))

	doc := export.Document{Text: out.Text, Segments: out.Segments, Language: out.Language, FileName: out.FileName}
	if outputDir == "" {
		return export.Transcript(cmd.OutOrStdout(), f, doc, time.Now())
	}
	return writeFile(filepath.Join(outputDir, export.FileName(out.FileName, f)), func(w io.Writer) error {
		return export.Transcript(w, f, doc, time.Now())
	})
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
