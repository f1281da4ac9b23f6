package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docmill/internal/backend"
	"github.com/pdiddy/docmill/internal/ledger"
	"github.com/pdiddy/docmill/internal/pipeline"
	"github.com/pdiddy/docmill/internal/scan"
	"github.com/pdiddy/docmill/internal/validate"
	"github.com/pdiddy/docmill/pkg/types"
)

const (
	defaultWorkers         = 4
	defaultSizeThresholdKB = 15
	defaultLargeSourceKB   = 100
	defaultMinValidRatio   = 0.1
	defaultDPI             = 300
)

var runCmd = &cobra.Command{
	Use:   "run <input_folder> <output_folder>",
	Short: "Convert a folder of PDFs, with OCR fallback for suspect results",
	Long: `Run converts every PDF in input_folder to Markdown in output_folder.
Each file goes through the fast structural path first; a result that looks
untrustworthy (near-empty output from a substantial source, or mostly blank
content) is reprocessed once with OCR. Per-file failures are reported in the
summary and never abort the batch.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	runCmd.Flags().Int("max-workers", defaultWorkers, "worker pool size (must be at least 1)")
	runCmd.Flags().Int("size-threshold", defaultSizeThresholdKB, "suspect-output size threshold in KB")
	runCmd.Flags().Int("large-source", defaultLargeSourceKB, "source size in KB above which the threshold applies")
	runCmd.Flags().Float64("min-valid-ratio", defaultMinValidRatio, "minimum non-whitespace ratio for accepted output")
	runCmd.Flags().String("backend", string(types.BackendPdftotext), "primary conversion backend: pdftotext or markitdown")
	runCmd.Flags().Int("dpi", defaultDPI, "rasterization DPI for the OCR pass")
	runCmd.Flags().Int("max-pages", 0, "page cap for the OCR pass (0 = no limit)")
	runCmd.Flags().String("summary-file", "", "write the YAML batch summary to this file")
	runCmd.Flags().String("ledger", "", "record the run in this SQLite history database")

	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir, outputDir := args[0], args[1]
	cfg := runConfigFromFlags(cmd)

	if cfg.Workers < 1 {
		return fmt.Errorf("--max-workers must be at least 1, got %d", cfg.Workers)
	}

	jobs, err := scan.Jobs(inputDir, outputDir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintf(os.Stdout, "no PDF files found in %s\n", inputDir)
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var conv backend.Converter
	switch cfg.Backend.Backend {
	case types.BackendPdftotext:
		conv = backend.NewPdftotextConverter(cfg.Backend, logger)
	case types.BackendMarkitdown:
		conv, err = backend.NewMarkitdownConverter(logger)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown backend %q (want pdftotext or markitdown)", cfg.Backend.Backend)
	}

	ocr := backend.NewTesseractReconstructor(cfg.Backend, logger)
	validator := validate.New(cfg.Validator)
	report := pipeline.NewReport(os.Stdout)

	queue := pipeline.NewQueue(len(jobs))
	for _, j := range jobs {
		queue.Enqueue(j)
	}
	queue.Close()

	started := time.Now()
	pool := pipeline.NewPool(cfg.Workers, conv, ocr, validator, report, logger)
	pool.Run(cmd.Context(), queue)
	finished := time.Now()

	sum := report.Finalize()
	sum.Fprint(os.Stdout)

	if cfg.SummaryFile != "" {
		if err := pipeline.WriteSummary(sum, cfg.SummaryFile); err != nil {
			fmt.Fprintf(os.Stderr, "warning: writing summary file: %v\n", err)
		}
	}
	if cfg.LedgerPath != "" {
		if err := recordRun(cfg, started, finished, inputDir, outputDir, sum); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run in ledger: %v\n", err)
		}
	}

	// Per-file failures are reported above, not fatal: the batch completed.
	return nil
}

// runConfigFromFlags assembles the run configuration. Flags win; unset flags
// fall back to the config file, then to the defaults.
func runConfigFromFlags(cmd *cobra.Command) types.RunConfig {
	return types.RunConfig{
		Workers: intSetting(cmd, "max-workers", "workers"),
		Backend: types.BackendConfig{
			Backend:       types.ConversionBackend(stringSetting(cmd, "backend", "backend_config.backend")),
			Pdftotext:     viper.GetString("backend_config.pdftotext"),
			Pdftoppm:      viper.GetString("backend_config.pdftoppm"),
			Tesseract:     viper.GetString("backend_config.tesseract"),
			TesseractLang: viper.GetString("backend_config.tesseract_lang"),
			DPI:           intSetting(cmd, "dpi", "backend_config.dpi"),
			MaxPages:      intSetting(cmd, "max-pages", "backend_config.max_pages"),
		},
		Validator: types.ValidatorConfig{
			SizeThresholdBytes: byteSetting(cmd, "size-threshold", "validator.size_threshold_bytes"),
			LargeSourceBytes:   byteSetting(cmd, "large-source", "validator.large_source_bytes"),
			MinValidRatio:      floatSetting(cmd, "min-valid-ratio", "validator.min_valid_ratio"),
		},
		SummaryFile: stringSetting(cmd, "summary-file", "summary_file"),
		LedgerPath:  stringSetting(cmd, "ledger", "ledger_path"),
	}
}

func recordRun(cfg types.RunConfig, started, finished time.Time, inputDir, outputDir string, sum pipeline.Summary) error {
	store, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(started, finished, inputDir, outputDir, cfg.Workers, sum)
	return err
}

// byteSetting resolves a size that is a KB flag on the command line but
// stored in bytes in the config file.
func byteSetting(cmd *cobra.Command, flag, key string) int64 {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt64(key)
	}
	kb, _ := cmd.Flags().GetInt(flag)
	return int64(kb) * 1024
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func floatSetting(cmd *cobra.Command, flag, key string) float64 {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	v, _ := cmd.Flags().GetFloat64(flag)
	return v
}

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}
