package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"snaptext/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text-file]",
	Short: "Extract links, emails and phone numbers from text",
	Long: `Scan free-form text for URLs, email addresses and North-American
phone numbers. Reads from the given file, or from stdin when no file is
provided. The same patterns run automatically on every scan.`,
	Example: `  # From a file
  snaptext extract notes.txt

  # From stdin
  pbpaste | snaptext extract --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// extractOutput is the JSON output structure when --json is used.
type extractOutput struct {
	Links  []string `json:"links"`
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("json", false, "Output as JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var text string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	links, emails, phones := extractEntities(text)

	if jsonOutput {
		data, err := json.MarshalIndent(extractOutput{
			Links:  links,
			Emails: emails,
			Phones: phones,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(links) == 0 && len(emails) == 0 && len(phones) == 0 {
		fmt.Println("No links, emails or phone numbers found.")
		return nil
	}

	var output strings.Builder
	writeEntitySection(&output, "Links", links)
	writeEntitySection(&output, "Emails", emails)
	writeEntitySection(&output, "Phone numbers", phones)
	fmt.Print(strings.TrimPrefix(output.String(), "\n"))
	return nil
}

// extractEntities derives all three entity lists from text.
func extractEntities(text string) (links, emails, phones []string) {
	return extract.Links(text), extract.Emails(text), extract.Phones(text)
}
