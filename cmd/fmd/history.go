package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fmd/internal/storage/db"
)

var (
	historyLimit int
	historyPrune string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously downloaded mods",
	Long: `List the download history recorded by get and batch, newest first.

Examples:
  fmd history
  fmd history --limit 50
  fmd history --prune 720h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show (0 = all)")
	historyCmd.Flags().StringVar(&historyPrune, "prune", "", "delete entries older than this duration (e.g. 720h) instead of listing")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, datDir, err := appDirs()
	if err != nil {
		return err
	}
	database, err := db.New(filepath.Join(datDir, "fmd.db"))
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer database.Close()

	if historyPrune != "" {
		age, err := time.ParseDuration(historyPrune)
		if err != nil {
			return fmt.Errorf("invalid --prune duration: %w", err)
		}
		removed, err := database.PruneDownloads(time.Now().Add(-age))
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d entries\n", removed)
		return nil
	}

	recs, err := database.ListDownloads(historyLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		type entry struct {
			ModName      string    `json:"mod_name"`
			Version      string    `json:"version"`
			FileName     string    `json:"file_name"`
			SizeBytes    int64     `json:"size_bytes"`
			DownloadedAt time.Time `json:"downloaded_at"`
		}
		out := make([]entry, 0, len(recs))
		for _, r := range recs {
			out = append(out, entry(r))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(recs) == 0 {
		fmt.Println("No downloads recorded")
		return nil
	}
	for _, r := range recs {
		fmt.Printf("%s  %-30s %-12s %8s\n",
			r.DownloadedAt.Format("2006-01-02 15:04"),
			r.ModName, r.Version,
			humanize.Bytes(uint64(r.SizeBytes)))
	}
	return nil
}
