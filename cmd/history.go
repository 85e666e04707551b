package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"snaptext/internal/config"
	"snaptext/internal/history"
	"snaptext/pkg/models"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved scans",
	Long: `List, inspect and delete previously saved scans. The history keeps
the 50 most recent scans; older ones are dropped automatically.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scans, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved scan in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved scans",
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyListCmd.Flags().Bool("json", false, "Output as JSON")
	historyListCmd.Flags().Int("limit", 0, "Show at most this many records (0 = all)")
	historyShowCmd.Flags().Bool("json", false, "Output as JSON")
	historyClearCmd.Flags().Bool("yes", false, "Skip the confirmation requirement")
}

func openHistoryStore() (*history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return newHistoryStore(cfg)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openHistoryStore()
	if err != nil {
		return err
	}

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	if jsonOutput {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No saved scans.")
		return nil
	}

	for _, record := range records {
		fmt.Printf("%s  %s  %s\n",
			record.ID,
			record.Timestamp.Format(time.DateTime),
			snippet(record.Text, 60))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	id := args[0]

	store, err := openHistoryStore()
	if err != nil {
		return err
	}

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}

	var record *models.Record
	for i := range records {
		if records[i].ID == id {
			record = &records[i]
			break
		}
	}
	if record == nil {
		return fmt.Errorf("no history record with id %s", id)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("ID:        %s\n", record.ID)
	fmt.Printf("Scanned:   %s\n", record.Timestamp.Format(time.RFC1123))
	fmt.Printf("Method:    %s\n", record.Method)
	if record.Confidence != nil {
		fmt.Printf("Confidence: %.0f%%\n", *record.Confidence*100)
	}
	if record.OriginalLanguage != "" {
		fmt.Printf("Language:  %s\n", record.OriginalLanguage)
	}
	fmt.Printf("\n%s\n", record.Text)

	if len(record.Translations) > 0 {
		fmt.Println("\nTranslations:")
		codes := make([]string, 0, len(record.Translations))
		for code := range record.Translations {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Printf("  [%s] %s\n", code, record.Translations[code])
		}
	}

	var output strings.Builder
	writeEntitySection(&output, "Links", record.Links)
	writeEntitySection(&output, "Emails", record.Emails)
	writeEntitySection(&output, "Phone numbers", record.Phones)
	fmt.Print(output.String())
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}

	if err := store.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return fmt.Errorf("this deletes all saved scans; re-run with --yes to confirm")
	}

	store, err := openHistoryStore()
	if err != nil {
		return err
	}

	if err := store.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Println("History cleared.")
	return nil
}

// snippet returns the first line of text, truncated to max runes.
func snippet(text string, max int) string {
	line := text
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	runes := []rune(line)
	if len(runes) > max {
		return string(runes[:max-1]) + "…"
	}
	return line
}
