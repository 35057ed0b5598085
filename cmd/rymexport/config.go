package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"rymexport/pkg/ui"
)

const defaultConfigPath = ".rymexport.yaml"

const exampleConfig = `# rymexport configuration file
#
# Every option can also be set with an environment variable prefixed with
# RYMEXPORT_, for example RYMEXPORT_DELAY=5s or RYMEXPORT_INDENT=true.
# Command line flags take precedence over both.

# Site being exported
site:
  # Root address every listing page is resolved against
  base_url: "https://rateyourmusic.com"

  # User-Agent header sent with every request
  user_agent: "Mozilla/5.0 (X11; Linux x86_64; rv:54.0) Gecko/20100101 Firefox/54.0"

# Page fetching
crawl:
  # Pause between two listing pages
  delay: 10s

  # Timeout of a single request, 0s waits forever
  timeout: 0s

  # Maximum requests per minute, 0 disables the cap
  requests_per_minute: 0

  # Refuse to export collections disallowed by robots.txt
  respect_robots: false

# Printed document
output:
  # Pretty-print the JSON document
  indent: false

# Logging configuration
logging:
  # Log level: debug, info, warn, error, disabled
  level: "warn"

  # Log file path (optional), logs always go to stderr as well
  file: ""

  # Disable colored log output
  no_color: false
`

func newConfigCmd(opts *options, stdout io.Writer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage rymexport configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (RYMEXPORT_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create an example configuration file",
		Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '` + defaultConfigPath + `'
unless a different path is specified with the --config flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(opts)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Show the current configuration as YAML, including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, opts, stdout)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long: `Validate the configuration for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Base URL and user agent
  - Non-negative delay, timeout and rate limit
  - Log level`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, opts)
		},
	}

	configCmd.AddCommand(initCmd, showCmd, validateCmd)
	return configCmd
}

func runConfigInit(opts *options) error {
	configPath := opts.configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	ui.PrintInfo("Next step", "rymexport config validate --config "+configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, opts *options, stdout io.Writer) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	_, err = stdout.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, opts *options) error {
	if opts.configFile != "" {
		ui.PrintInfo("Validating configuration", opts.configFile)
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Crawl.Delay == 0 {
		ui.PrintWarning("Delay is 0s, pages will be requested back to back")
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Base URL", cfg.Site.BaseURL)
	ui.PrintInfo("Delay", cfg.Crawl.Delay.String())
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}
