package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fmd/internal/core"
	"fmd/internal/domain"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Download a list of mods with their dependencies",
	Long: `Download every mod listed in a batch file, resolving all dependency
trees first and downloading the combined, deduplicated set once.

The file is either a JSON modpack manifest:

  {"name": "my pack", "mods": ["flib", "https://.../mod/aai-industry"]}

or a plain text list with one mod URL or identifier per line (# comments).

Examples:
  fmd batch modpack.json -o ~/factorio/mods
  fmd batch mods.txt --concurrency 8 --continue-on-error=false`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	addDownloadFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := core.LoadBatchFile(args[0])
	if err != nil {
		return err
	}

	ropts, dopts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	service, err := initService()
	if err != nil {
		return err
	}
	defer service.Close()

	if verbose && batch.Name != "" {
		fmt.Printf("Batch: %s (%d mods)\n", batch.Name, len(batch.Mods))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := runWithProgress(ctx, func(ctx context.Context, progressFn core.ProgressFunc) *domain.Result {
		return service.Batch(ctx, batch.Mods, ropts, dopts, progressFn)
	})

	return finishRun(res)
}
