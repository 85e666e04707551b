package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"snaptext/internal/config"
	"snaptext/internal/history"
	"snaptext/internal/logger"
	"snaptext/internal/scan"
	"snaptext/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text using the Google Translate API",
	Long: `Translate text into a target language. The text comes from the
command line, from stdin, or - with --record - from a previously saved
scan, in which case the translation is stored on that history record.

Requires the GOOGLE_API_KEY environment variable.`,
	Example: `  # Translate a phrase to Spanish
  snaptext translate "good morning" --to es

  # Retranslate a saved scan to French and store the result
  snaptext translate --record 1767279600000 --to fr

  # List available target languages
  snaptext translate --list-languages`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

// translateOutput is the JSON output structure when --json is used.
type translateOutput struct {
	TranslatedText   string `json:"translated_text"`
	DetectedLanguage string `json:"detected_language"`
	TargetLanguage   string `json:"target_language"`
	RecordID         string `json:"record_id,omitempty"`
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringP("to", "t", "", "Target language code (e.g. es, fr, ja)")
	translateCmd.Flags().StringP("record", "r", "", "Translate the text of this history record and store the result")
	translateCmd.Flags().Bool("json", false, "Output as JSON")
	translateCmd.Flags().Bool("list-languages", false, "List supported target languages")
	translateCmd.Flags().Int("timeout", 30, "Request timeout in seconds")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("translate")

	targetLanguage, _ := cmd.Flags().GetString("to")
	recordID, _ := cmd.Flags().GetString("record")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	listLanguages, _ := cmd.Flags().GetBool("list-languages")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if listLanguages {
		for _, lang := range translate.SupportedLanguages {
			fmt.Printf("  %s  %s\n", lang.Code, lang.Name)
		}
		return nil
	}

	if targetLanguage == "" {
		return fmt.Errorf("target language is required: use --to with a language code (see --list-languages)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	translator, err := translate.NewGoogleTranslator(ctx, cfg.GoogleAPIKey)
	if err != nil {
		return err
	}
	store, err := newHistoryStore(cfg)
	if err != nil {
		return err
	}
	service := scan.NewService(nil, translator, store)

	if recordID != "" {
		result, err := service.Retranslate(ctx, recordID, targetLanguage)
		if err != nil {
			if errors.Is(err, history.ErrRecordNotFound) {
				return fmt.Errorf("no history record with id %s", recordID)
			}
			return handleTranslateError(err, log)
		}
		return outputTranslation(result, targetLanguage, recordID, jsonOutput)
	}

	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return fmt.Errorf("nothing to translate: pass text as an argument or on stdin")
	}

	result, err := service.Translate(ctx, text, targetLanguage)
	if err != nil {
		return handleTranslateError(err, log)
	}
	return outputTranslation(result, targetLanguage, "", jsonOutput)
}

// handleTranslateError provides user-friendly messages for translation failures.
func handleTranslateError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Translation failed")

	switch {
	case errors.Is(err, translate.ErrMissingAPIKey):
		return fmt.Errorf("translation requires a Google API key: set GOOGLE_API_KEY in your environment or .env file")
	case errors.Is(err, translate.ErrBackend):
		return fmt.Errorf("translation failed. Check your internet connection and try again: %w", err)
	default:
		return fmt.Errorf("translation failed: %w", err)
	}
}

func outputTranslation(result *translate.Result, targetLanguage, recordID string, jsonOutput bool) error {
	if jsonOutput {
		data, err := json.MarshalIndent(translateOutput{
			TranslatedText:   result.TranslatedText,
			DetectedLanguage: result.DetectedLanguage,
			TargetLanguage:   targetLanguage,
			RecordID:         recordID,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(result.TranslatedText)
	if result.DetectedLanguage != "" && result.DetectedLanguage != "unknown" {
		fmt.Printf("(detected source language: %s)\n", result.DetectedLanguage)
	}
	if recordID != "" {
		fmt.Printf("Stored on history record %s\n", recordID)
	}
	return nil
}
