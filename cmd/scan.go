package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"snaptext/internal/config"
	"snaptext/internal/logger"
	"snaptext/internal/ocr"
	"snaptext/internal/scan"
	"snaptext/internal/translate"
	"snaptext/pkg/models"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Extract text from an image using Google Cloud Vision OCR",
	Long: `Run Google Cloud Vision text detection on an image and print the
extracted text along with any links, email addresses and phone numbers
found in it. The scan is saved to the local history unless --no-save is
given.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_API_KEY - Only needed when --translate is used`,
	Example: `  # Extract text from a photo
  snaptext scan receipt.jpg

  # Extract and translate to Spanish
  snaptext scan sign.png --translate es

  # Machine-readable output without touching the history
  snaptext scan card.jpg --json --no-save`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

// scanOutput is the JSON output structure when --json is used.
type scanOutput struct {
	Text               string   `json:"text"`
	Confidence         float64  `json:"confidence"`
	DetectedLanguage   string   `json:"detected_language,omitempty"`
	TranslatedText     string   `json:"translated_text,omitempty"`
	Links              []string `json:"links,omitempty"`
	Emails             []string `json:"emails,omitempty"`
	Phones             []string `json:"phones,omitempty"`
	RecordID           string   `json:"record_id,omitempty"`
	FileName           string   `json:"file_name"`
	ProcessingDuration string   `json:"processing_duration,omitempty"`
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("translate", "t", "", "Translate extracted text to this language code")
	scanCmd.Flags().Bool("json", false, "Output as JSON")
	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Bool("no-save", false, "Do not record this scan in the history")
	scanCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	targetLanguage, _ := cmd.Flags().GetString("translate")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	noSave, _ := cmd.Flags().GetBool("no-save")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if targetLanguage == "" {
		targetLanguage = cfg.DefaultTargetLanguage
	}

	if err := validateImageFile(imagePath, log); err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	var translator translate.Translator
	if targetLanguage != "" {
		translator, err = translate.NewGoogleTranslator(ctx, cfg.GoogleAPIKey)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create translator")
			return fmt.Errorf("translation requested but unavailable: %w", err)
		}
	}

	ocrService, err := createOCRService(ctx, translator, log)
	if err != nil {
		return err
	}

	store, err := newHistoryStore(cfg)
	if err != nil {
		return err
	}

	service := scan.NewService(ocrService, translator, store)

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}

	log.Info().
		Str("file", imagePath).
		Int("size", len(imageData)).
		Str("target", targetLanguage).
		Msg("Processing image")

	result, record, err := service.Scan(ctx, imageData, targetLanguage, !noSave)
	if err != nil {
		return handleScanError(err, log)
	}

	return outputScanResult(result, record, imagePath, outputPath, jsonOutput)
}

// validateImageFile checks that the path points at a readable,
// non-empty, reasonably sized image file.
func validateImageFile(imagePath string, log zerolog.Logger) error {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", imagePath)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied accessing image file: %s", imagePath)
		}
		return fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", imagePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("image file is empty: %s", imagePath)
	}

	if fileInfo.Size() > ocr.MaxImageSizeBytes {
		return fmt.Errorf("image file too large (%d bytes). Maximum size is %d bytes (10MB)",
			fileInfo.Size(), ocr.MaxImageSizeBytes)
	}

	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		log.Warn().
			Str("file", imagePath).
			Msg("File does not have a recognized image extension")
	}

	return nil
}

// createContextWithTimeout creates a context with timeout and signal handling.
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// createOCRService creates and configures the OCR service.
func createOCRService(ctx context.Context, translator translate.Translator, log zerolog.Logger) (ocr.Service, error) {
	hasCredentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != ""
	if !hasCredentials {
		log.Error().Msg("Google Cloud credentials not configured")
		return nil, fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
			"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
			"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
			"2. Export GOOGLE_CREDENTIALS with inline JSON:\n" +
			"   export GOOGLE_CREDENTIALS='{\"type\":\"service_account\",...}'\n\n" +
			"3. Check that your .env file contains the credentials variables")
	}

	ocrService, err := ocr.NewGoogleVisionService(ctx, translator)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create OCR service")
		return nil, fmt.Errorf("failed to create OCR service: %w", err)
	}

	return ocrService, nil
}

// handleScanError provides user-friendly error messages for scan failures.
func handleScanError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Scan failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("scan timed out. Try increasing --timeout or using a smaller image")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("scan was canceled")
	case errors.Is(err, ocr.ErrImageTooLarge):
		return fmt.Errorf("image is too large (maximum 10MB). Try compressing it first")
	case errors.Is(err, ocr.ErrPreprocess):
		return fmt.Errorf("could not process the image. Check that the file is a valid JPEG, PNG or GIF: %w", err)
	case errors.Is(err, ocr.ErrBackend):
		return fmt.Errorf("text extraction failed. Try again with a clearer image: %w", err)
	default:
		return fmt.Errorf("scan failed: %w", err)
	}
}

// outputScanResult formats and writes the scan result.
func outputScanResult(result *ocr.Result, record *models.Record, imagePath, outputPath string, jsonOutput bool) error {
	links, emails, phones := entitiesForDisplay(result, record)

	var outputData []byte
	if jsonOutput {
		out := scanOutput{
			Text:               result.Text,
			Confidence:         result.Confidence,
			DetectedLanguage:   result.DetectedLanguage,
			TranslatedText:     result.TranslatedText,
			Links:              links,
			Emails:             emails,
			Phones:             phones,
			FileName:           filepath.Base(imagePath),
			ProcessingDuration: result.ProcessingDuration.String(),
		}
		if record != nil {
			out.RecordID = record.ID
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		outputData = data
	} else {
		var output strings.Builder
		if result.Text == "" {
			output.WriteString("No text found in the image.\n")
		} else {
			output.WriteString(result.Text)
			output.WriteString("\n")
		}
		if result.TranslatedText != "" && result.TranslatedText != result.Text {
			output.WriteString(fmt.Sprintf("\n--- Translation (from %s) ---\n%s\n", result.DetectedLanguage, result.TranslatedText))
		}
		writeEntitySection(&output, "Links", links)
		writeEntitySection(&output, "Emails", emails)
		writeEntitySection(&output, "Phone numbers", phones)
		if record != nil {
			output.WriteString(fmt.Sprintf("\nSaved to history as %s\n", record.ID))
		}
		outputData = []byte(output.String())
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	_, err := os.Stdout.Write(outputData)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// entitiesForDisplay prefers the persisted record's entity lists and
// recomputes them from the text for unsaved scans.
func entitiesForDisplay(result *ocr.Result, record *models.Record) (links, emails, phones []string) {
	if record != nil {
		return record.Links, record.Emails, record.Phones
	}
	return extractEntities(result.Text)
}

func writeEntitySection(output *strings.Builder, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	output.WriteString(fmt.Sprintf("\n%s:\n", title))
	for _, entry := range entries {
		output.WriteString(fmt.Sprintf("  %s\n", entry))
	}
}
