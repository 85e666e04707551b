package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snaptext/internal/config"
	"snaptext/internal/history"
	"snaptext/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "snaptext",
	Short: "snaptext - extract, translate and organize text from images",
	Long: `snaptext turns photos of documents, signs and business cards into
searchable text. It runs Google Cloud Vision OCR on an image, pulls out
links, email addresses and phone numbers, optionally translates the
text, and keeps a local history of past scans.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("snaptext - extract text from images")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newHistoryStore opens the file-backed history store under the
// configured data directory.
func newHistoryStore(cfg *config.Config) (*history.Store, error) {
	kv, err := history.NewFileKV(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history storage: %w", err)
	}
	return history.NewStore(kv, history.WithLimit(cfg.HistoryLimit)), nil
}
