package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/deadwood-scan/deadwood/internal/ai"
	"github.com/deadwood-scan/deadwood/internal/config"
	"github.com/deadwood-scan/deadwood/internal/core"
	"github.com/deadwood-scan/deadwood/internal/mcp"
	"github.com/deadwood-scan/deadwood/internal/profile"
	"github.com/deadwood-scan/deadwood/internal/report"
	"github.com/deadwood-scan/deadwood/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorOrange = "\033[38;5;208m"
	colorYellow = "\033[38;5;220m"
	colorGray   = "\033[38;5;245m"
	colorCyan   = "\033[36m"
)

var (
	version = core.Version
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deadwood",
		Short: "Deadwood - Useless File Scanner for Project Directories",
		Long: `Bounded directory scanner that reports empty files, empty directories,
and byte-identical duplicates. Advisory only: it never deletes or modifies
anything it finds.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()
			cmd.Help()
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Disable built-in help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Add commands
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(helpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printMainBanner prints the main banner
func printMainBanner() {
	fmt.Println()
	fmt.Printf("%s", colorOrange)
	fmt.Println("████▄  ▄████▄ ▄████▄ ████▄  ██ ▄▄ ██ ▄████▄ ▄████▄ ████▄")
	fmt.Println("██  ██ ██▄▄   ██▄▄██ ██  ██ ██ ██ ██ ██  ██ ██  ██ ██  ██")
	fmt.Println("████▀  ▀████▀ ██  ██ ████▀  ▀██▀▀██▀ ▀████▀ ▀████▀ ████▀")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sUseless File Scanner v%s%s\n", colorGray, version, colorReset)
	fmt.Println()
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		maxDepth     int
		maxFiles     int
		maxScanTime  time.Duration
		extensions   []string
		exclude      []string
		profilePath  string
		reportFormat string
		outputFile   string
		// AI flags
		aiEnabled     bool
		aiModel       string
		aiToken       string
		aiMaxFindings int
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory for empty and duplicate files",
		Long: `Walk a directory depth-first and report empty files, empty directories,
and byte-identical duplicates among the configured extensions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			// Validate flags before doing anything
			if err := validateFlags(reportFormat, aiModel); err != nil {
				fmt.Printf("\n  %s✗ Invalid parameter:%s %s\n\n", colorRed, colorReset, err.Error())
				return err
			}

			// Initialize logger based on verbose flag
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				// Silent logger - only errors
				cfg := zap.Config{
					Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
					Encoding:         "json",
					OutputPaths:      []string{"stderr"},
					ErrorOutputPaths: []string{"stderr"},
					EncoderConfig:    zap.NewProductionEncoderConfig(),
				}
				logger, err = cfg.Build()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()

			// Print banner
			printBanner(path)

			// Load configuration
			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			// Apply scan profile before flag overrides so explicit flags win
			if profilePath != "" {
				cfg.ProfilePath = profilePath
			}
			if cfg.ProfilePath != "" {
				prof, err := profile.NewLoader(cfg.ProfilePath).Load()
				if err != nil {
					logger.Error("Failed to load profile", zap.Error(err))
					return err
				}
				prof.Apply(cfg)
				logger.Info("Applied scan profile",
					zap.String("profile", prof.Name),
					zap.String("path", cfg.ProfilePath))
			}

			// Override config with CLI flags. Depth and entry limits are
			// gated on Changed because zero is a meaningful depth.
			if cmd.Flags().Changed("max-depth") {
				cfg.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("max-files") {
				cfg.MaxFiles = maxFiles
			}
			if cmd.Flags().Changed("max-scan-time") {
				cfg.MaxScanTime = maxScanTime
			}
			if len(extensions) > 0 {
				cfg.Extensions = extensions
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if reportFormat != "" {
				cfg.ReportFormat = reportFormat
			}
			if outputFile != "" {
				cfg.OutputFile = outputFile
			}

			// AI configuration overrides
			if aiEnabled {
				cfg.AI.Enabled = true
			}
			if aiModel != "" {
				cfg.AI.Model = aiModel
			}
			if aiToken != "" {
				cfg.AI.APIToken = aiToken
			}
			if cmd.Flags().Changed("ai-max-findings") {
				cfg.AI.MaxFindings = aiMaxFindings
			}

			// Create scanner
			scanner := core.NewScanner(cfg, logger)

			// Run scan
			result, err := scanner.Scan(models.ScanRequest{
				Root:     path,
				MaxDepth: cfg.MaxDepth,
				MaxFiles: cfg.MaxFiles,
			})
			if err != nil {
				logger.Error("Scan failed", zap.Error(err))
				fmt.Fprintln(os.Stderr, report.RenderError(err))
				return err
			}

			// Deletion advice is best-effort: any failure leaves the scan
			// results untouched
			var advice *ai.Advice
			if cfg.AI.Enabled {
				advisor, err := ai.NewAdvisor(&cfg.AI, logger)
				if err != nil {
					logger.Error("Deletion advice unavailable", zap.Error(err))
					fmt.Printf("  %s⚠ Deletion advice unavailable: %v%s\n\n", colorYellow, err, colorReset)
				} else {
					advice, err = advisor.Review(cmd.Context(), result)
					if err != nil {
						logger.Error("Deletion advice failed", zap.Error(err))
						fmt.Printf("  %s⚠ Deletion advice failed: %v%s\n\n", colorYellow, err, colorReset)
						advice = nil
					}
				}
			}

			// Render report
			generator, err := report.NewGenerator(cfg, logger)
			if err != nil {
				logger.Error("Failed to create report generator", zap.Error(err))
				return err
			}

			reportPath, err := generator.Generate(result, advice)
			if err != nil {
				logger.Error("Failed to generate report", zap.Error(err))
				return err
			}

			// Print report path if written to a file
			if reportPath != "" {
				fmt.Printf("  %sReport:%s    %s%s%s\n", colorGray, colorReset, colorOrange, reportPath, colorReset)
				fmt.Println()
			}

			return nil
		},
	}

	// Flags
	cmd.Flags().IntVar(&maxDepth, "max-depth", 5, "Maximum directory depth (clamped to 0-10)")
	cmd.Flags().IntVar(&maxFiles, "max-files", 1000, "Maximum entries to process (clamped to 1-1000)")
	cmd.Flags().DurationVar(&maxScanTime, "max-scan-time", 30*time.Second, "Wall-clock time limit per scan")
	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "Extensions eligible for duplicate detection (comma-separated)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Path markers to exclude (comma-separated)")
	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML scan profile path")
	cmd.Flags().StringVarP(&reportFormat, "report", "r", "", "Report format: txt, json, md (default: console output)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")

	// AI flags
	cmd.Flags().BoolVar(&aiEnabled, "ai", false, "Enable AI deletion advice for findings")
	cmd.Flags().StringVar(&aiModel, "ai-model", "", "AI model: haiku, sonnet, opus (default: haiku)")
	cmd.Flags().StringVar(&aiToken, "ai-token", "", "Anthropic API token (or set ANTHROPIC_API_KEY)")
	cmd.Flags().IntVar(&aiMaxFindings, "ai-max-findings", 50, "Maximum findings sent for advice")

	return cmd
}

// serveCmd creates the serve command
func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scanner as an HTTP tool server",
		Long: `Expose the find-useless-files tool over HTTP JSON-RPC so agent clients
can request scans. The server shuts down cleanly on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Servers log at info level even without --verbose: the log
			// stream is the only visible output once requests arrive
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()

			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}
			if addr != "" {
				cfg.ServerAddr = addr
			}
			if cfg.ProfilePath != "" {
				prof, err := profile.NewLoader(cfg.ProfilePath).Load()
				if err != nil {
					logger.Error("Failed to load profile", zap.Error(err))
					return err
				}
				prof.Apply(cfg)
				logger.Info("Applied scan profile", zap.String("profile", prof.Name))
			}

			scanner := core.NewScanner(cfg, logger)

			server := mcp.NewServer(cfg.ServerAddr, logger)
			server.SetServerInfo("deadwood", version)
			server.RegisterTool(mcp.NewFindUselessFilesTool(scanner))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printMainBanner()
			fmt.Printf("  %sListening:%s %s\n", colorGray, colorReset, cfg.ServerAddr)
			fmt.Println()

			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8327)")

	return cmd
}

// versionCmd creates the version command
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("deadwood version %s\n", version)
		},
	}
}

// validateFlags validates CLI flag values
func validateFlags(reportFormat, aiModel string) error {
	// Validate report format
	if reportFormat != "" {
		validFormats := []string{"text", "txt", "json", "md", "markdown"}
		if !contains(validFormats, reportFormat) {
			return fmt.Errorf("--report must be one of: %s (got: %s)", strings.Join(validFormats, ", "), reportFormat)
		}
	}

	// Validate AI model
	if aiModel != "" {
		validModels := []string{"haiku", "sonnet", "opus"}
		if !contains(validModels, aiModel) {
			return fmt.Errorf("--ai-model must be one of: %s (got: %s)", strings.Join(validModels, ", "), aiModel)
		}
	}

	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// printBanner prints the startup banner
func printBanner(path string) {
	fmt.Println()
	fmt.Printf("%s", colorOrange)
	fmt.Println("████▄  ▄████▄ ▄████▄ ████▄  ██ ▄▄ ██ ▄████▄ ▄████▄ ████▄")
	fmt.Println("██  ██ ██▄▄   ██▄▄██ ██  ██ ██ ██ ██ ██  ██ ██  ██ ██  ██")
	fmt.Println("████▀  ▀████▀ ██  ██ ████▀  ▀██▀▀██▀ ▀████▀ ▀████▀ ████▀")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sUseless File Scanner v%s%s\n", colorGray, version, colorReset)
	fmt.Println()
	fmt.Printf("  %sScanning:%s  %s\n", colorGray, colorReset, path)
	fmt.Println()
}

// helpCmd creates a detailed help command
func helpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show detailed help and documentation",
		Long:  `Display complete documentation including all commands, flags, and examples.`,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()

			fmt.Printf("%s%sABOUT%s\n\n", colorBold, colorOrange, colorReset)
			fmt.Printf("  Deadwood walks a project directory and reports things you probably\n")
			fmt.Printf("  never meant to keep: empty files, empty directories, and byte-identical\n")
			fmt.Printf("  duplicate copies. It only reports. Nothing is ever deleted or modified.\n\n")

			fmt.Printf("  %sKey features:%s\n", colorBold, colorReset)
			fmt.Printf("  • Bounded scans: depth, entry count, per-directory fan-out, and wall time\n")
			fmt.Printf("  • MD5-based duplicate detection over a configurable extension allow-list\n")
			fmt.Printf("  • HTTP tool server mode for agent integrations\n")
			fmt.Printf("  • AI deletion advice using Claude (optional, token required)\n")
			fmt.Printf("  • Output formats: console, text, JSON, Markdown\n\n")

			fmt.Printf("%s%sCOMMANDS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %sscan <path>%s       Scan a directory and report useless files\n", colorBold, colorReset)
			fmt.Printf("  %sserve%s             Run the HTTP tool server\n", colorBold, colorReset)
			fmt.Printf("  %sversion%s           Show version information\n", colorBold, colorReset)

			fmt.Printf("\n%s%sSCAN FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s--max-depth%s <n>     Directory depth limit, 0-10 (default: 5)\n", colorBold, colorReset)
			fmt.Printf("  %s--max-files%s <n>     Entry processing limit, 1-1000 (default: 1000)\n", colorBold, colorReset)
			fmt.Printf("  %s--max-scan-time%s <d> Wall-clock limit per scan (default: 30s)\n", colorBold, colorReset)
			fmt.Printf("  %s--extensions%s        Extensions checked for duplicates (comma-separated)\n", colorBold, colorReset)
			fmt.Printf("  %s--exclude%s           Path markers to skip, e.g. node_modules (comma-separated)\n", colorBold, colorReset)
			fmt.Printf("  %s--profile%s <file>    YAML scan profile with extensions/exclude overrides\n", colorBold, colorReset)

			fmt.Printf("\n%s%sREPORT FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s-r, --report%s <fmt>  Report format: %stxt%s, %sjson%s, %smd%s\n",
				colorBold, colorReset, colorCyan, colorReset, colorCyan, colorReset, colorCyan, colorReset)
			fmt.Printf("  %s-o, --output%s <file> Output file path\n", colorBold, colorReset)

			fmt.Printf("\n%s%sAI ADVICE FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s--ai%s                Enable AI deletion advice for findings\n", colorBold, colorReset)
			fmt.Printf("  %s--ai-model%s <model>  AI model: %shaiku%s (default), %ssonnet%s, %sopus%s\n",
				colorBold, colorReset, colorCyan, colorReset, colorCyan, colorReset, colorCyan, colorReset)
			fmt.Printf("  %s--ai-token%s <token>  Anthropic API token (or set ANTHROPIC_API_KEY env)\n", colorBold, colorReset)
			fmt.Printf("  %s--ai-max-findings%s   Cap on findings sent for advice (default: 50)\n", colorBold, colorReset)

			fmt.Printf("\n%s%sSERVE FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s--addr%s <addr>       Listen address (default: :8327)\n", colorBold, colorReset)

			fmt.Printf("\n%s%sGLOBAL FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s-v, --verbose%s       Enable verbose logging\n", colorBold, colorReset)
			fmt.Printf("  %s-h, --help%s          Show help for any command\n", colorBold, colorReset)
			fmt.Printf("  %s--version%s           Show version\n", colorBold, colorReset)

			fmt.Printf("\n%s%sENVIRONMENT%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  Every setting can come from DEADWOOD_* environment variables, e.g.\n")
			fmt.Printf("  DEADWOOD_MAX_DEPTH, DEADWOOD_SERVER_ADDR, DEADWOOD_PROFILE_PATH.\n")

			fmt.Printf("\n%s%sEXAMPLES%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s# Basic scan%s\n", colorGray, colorReset)
			fmt.Printf("  deadwood scan ~/projects/site\n\n")

			fmt.Printf("  %s# Shallow scan of a huge tree%s\n", colorGray, colorReset)
			fmt.Printf("  deadwood scan --max-depth=2 --max-files=500 /var/www\n\n")

			fmt.Printf("  %s# Only check documents and images for duplicates%s\n", colorGray, colorReset)
			fmt.Printf("  deadwood scan --extensions=pdf,docx,jpg,png ~/Downloads\n\n")

			fmt.Printf("  %s# Generate a JSON report%s\n", colorGray, colorReset)
			fmt.Printf("  deadwood scan --report=json --output=report.json ./workspace\n\n")

			fmt.Printf("  %s# Scan with AI deletion advice%s\n", colorGray, colorReset)
			fmt.Printf("  deadwood scan --ai ~/projects/site\n\n")

			fmt.Printf("  %s# Run the tool server for agent clients%s\n", colorGray, colorReset)
			fmt.Printf("  deadwood serve --addr=:8327\n\n")
		},
	}
}
