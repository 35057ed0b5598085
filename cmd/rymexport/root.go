package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rymexport/pkg/config"
	"rymexport/pkg/errors"
	"rymexport/pkg/logger"
	"rymexport/pkg/scraper"
	"rymexport/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// options holds the values of every command line flag
type options struct {
	configFile    string
	baseURL       string
	userAgent     string
	delay         time.Duration
	timeout       time.Duration
	rateLimit     int
	respectRobots bool
	indent        bool
	logLevel      string
	logFile       string
	noColor       bool
	quiet         bool
}

// newRootCmd builds the command tree. Documents go to stdout, everything else to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rymexport [flags] <username>",
		Short: "Export a rateyourmusic.com rating collection as JSON",
		Long: `rymexport walks every listing page of a user's public rating collection on
rateyourmusic.com and prints one JSON document mapping artist to album to rating.

Ratings are integers on a ten-point scale: 35 means 3.5 stars.
Progress is reported on stderr; stdout carries only the document.`,
		Example: `  # Export a collection
  rymexport someone > ratings.json

  # Pretty-print and respect robots.txt
  rymexport --indent --respect-robots someone

  # Shorter pause between pages
  rymexport --delay 5s someone`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          usernameArg,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.SetColor(!opts.noColor && isTerminal(stderr))
			ui.SetQuietMode(opts.quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, args[0], stdout, stderr)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Usage("%v", err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default is .rymexport.yaml or $HOME/.config/rymexport/config.yaml)")
	flags.StringVar(&opts.baseURL, "base-url", "", "site root to export from (default "+config.DefaultBaseURL+")")
	flags.StringVar(&opts.userAgent, "user-agent", "", "User-Agent header sent with every request")
	flags.DurationVar(&opts.delay, "delay", config.DefaultDelay, "pause between two listing pages")
	flags.DurationVar(&opts.timeout, "timeout", 0, "timeout of a single request (0 waits forever)")
	flags.IntVar(&opts.rateLimit, "rate-limit", 0, "maximum requests per minute (0 disables the cap)")
	flags.BoolVar(&opts.respectRobots, "respect-robots", false, "refuse to export collections disallowed by robots.txt")
	flags.BoolVar(&opts.indent, "indent", false, "pretty-print the JSON document")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	flags.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newConfigCmd(opts, stdout))
	rootCmd.AddCommand(newVersionCmd(stdout))

	return rootCmd
}

// usernameArg requires exactly one positional argument
func usernameArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.Usage("expected exactly one username, got %d arguments", len(args))
	}
	return nil
}

// flagOverrides returns the flags the user set explicitly, keyed by flag name
func (o *options) flagOverrides(cmd *cobra.Command) map[string]interface{} {
	fs := cmd.Flags()
	flags := make(map[string]interface{})

	if fs.Changed("base-url") {
		flags["base-url"] = o.baseURL
	}
	if fs.Changed("user-agent") {
		flags["user-agent"] = o.userAgent
	}
	if fs.Changed("delay") {
		flags["delay"] = o.delay
	}
	if fs.Changed("timeout") {
		flags["timeout"] = o.timeout
	}
	if fs.Changed("rate-limit") {
		flags["rate-limit"] = o.rateLimit
	}
	if fs.Changed("respect-robots") {
		flags["respect-robots"] = o.respectRobots
	}
	if fs.Changed("indent") {
		flags["indent"] = o.indent
	}
	if fs.Changed("log-level") {
		flags["log-level"] = o.logLevel
	}
	if fs.Changed("log-file") {
		flags["log-file"] = o.logFile
	}

	return flags
}

// loadConfig loads the configuration with flags applied on top
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configFile, o.flagOverrides(cmd))
	if err != nil {
		return nil, err
	}
	if o.noColor {
		cfg.Logging.NoColor = true
	}
	return cfg, nil
}

func runExport(cmd *cobra.Command, opts *options, username string, stdout, stderr io.Writer) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewWithWriter(&cfg.Logging, stderr, !cfg.Logging.NoColor && isTerminal(stderr))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetLogger(log)
	log.WithField("version", version).Debug("rymexport starting")

	s, err := scraper.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}

	collection, err := s.Export(cmd.Context(), username)
	if err != nil {
		return err
	}

	return collection.WriteJSON(stdout, cfg.Output.Indent)
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
