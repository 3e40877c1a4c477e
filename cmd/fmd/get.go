package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fmd/internal/core"
	"fmd/internal/domain"
)

var (
	getFactorioVersion string
	getModVersion      string
	getOptional        bool
	getOptionalAll     bool
	getMaxDepth        int
	getConcurrency     int
	getContinue        bool
	getEnable          bool
)

var getCmd = &cobra.Command{
	Use:   "get <mod-url|mod-id>",
	Short: "Download a mod and its dependencies",
	Long: `Download a mod from the mod portal together with its transitive
dependencies, into the output directory.

Examples:
  fmd get flib
  fmd get flib@0.16.3 -o ~/factorio/mods
  fmd get https://re146.dev/factorio/mods/en#mod/flib --factorio-version 1.1
  fmd get flib --optional=false --mods-path ~/factorio/mods`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	addDownloadFlags(getCmd)
	getCmd.Flags().StringVar(&getModVersion, "mod-version", "", "exact version of the requested mod (default: latest compatible)")
	rootCmd.AddCommand(getCmd)
}

// addDownloadFlags registers the flags shared by get and batch.
func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&getFactorioVersion, "factorio-version", domain.DefaultFactorioVersion, "target Factorio version")
	cmd.Flags().BoolVar(&getOptional, "optional", true, "install optional dependencies of the requested mod")
	cmd.Flags().BoolVar(&getOptionalAll, "optional-all", false, "install optional dependencies at every depth")
	cmd.Flags().IntVar(&getMaxDepth, "max-depth", domain.DefaultMaxDepth, "maximum dependency depth")
	cmd.Flags().IntVar(&getConcurrency, "concurrency", domain.DefaultConcurrency, "maximum parallel downloads")
	cmd.Flags().BoolVar(&getContinue, "continue-on-error", true, "keep downloading after individual failures")
	cmd.Flags().BoolVar(&getEnable, "enable", true, "mark downloaded mods enabled in mod-list.json (with --mods-path)")
}

// buildOptions merges the config file with command-line flags; a flag set
// explicitly on the command line wins over the file.
func buildOptions(cmd *cobra.Command) (domain.ResolveOptions, domain.DownloadOptions, error) {
	cfg, err := loadConfig()
	if err != nil {
		return domain.ResolveOptions{}, domain.DownloadOptions{}, err
	}
	ropts := cfg.ResolveOptions()
	dopts := cfg.DownloadOptions()

	flags := cmd.Flags()
	if flags.Changed("factorio-version") || cfg.FactorioVersion == "" {
		ropts.FactorioVersion = getFactorioVersion
	}
	if flags.Changed("optional") {
		ropts.InstallOptional = getOptional
	}
	if flags.Changed("optional-all") {
		ropts.InstallOptionalAll = getOptionalAll
	}
	if flags.Changed("max-depth") {
		ropts.MaxDepth = getMaxDepth
	}
	if flags.Changed("concurrency") {
		dopts.Concurrency = getConcurrency
	}
	if flags.Changed("continue-on-error") {
		dopts.ContinueOnError = getContinue
	}
	if outputPath != "" {
		dopts.OutputPath = outputPath
	}
	if modsPath == "" {
		modsPath = cfg.ModsPath
	}
	return ropts, dopts, nil
}

func runGet(cmd *cobra.Command, args []string) error {
	ropts, dopts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	ropts.TargetModVersion = getModVersion

	service, err := initService()
	if err != nil {
		return err
	}
	defer service.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := runWithProgress(ctx, func(ctx context.Context, progressFn core.ProgressFunc) *domain.Result {
		return service.Download(ctx, args[0], ropts, dopts, progressFn)
	})

	return finishRun(res)
}

// finishRun prints the result, updates mod-list.json when requested, and
// converts partial failure into a command error for the exit code.
func finishRun(res *domain.Result) error {
	printResult(os.Stdout, res)
	if err := maybeUpdateModList(res); err != nil {
		return err
	}
	return resultErr(res)
}

// maybeUpdateModList appends successful downloads to mod-list.json when a
// mods directory is configured. The writer gets the written archive file
// names so it can derive bare mod names from them.
func maybeUpdateModList(res *domain.Result) error {
	if modsPath == "" || len(res.Files) == 0 {
		return nil
	}
	added, err := core.UpdateModList(modsPath, res.Files, getEnable)
	if err != nil {
		return err
	}
	if added > 0 && !jsonOutput {
		printModListUpdate(os.Stdout, added)
	}
	return nil
}
