package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"speechd/internal/common/fsutil"
	"speechd/internal/config"
)

// options holds flag values. Flags default to SPEECHD_* env vars and, when
// set, override values from the config file.
type options struct {
	configPath   string
	envFile      string
	addr         string
	modelsDir    string
	logLevel     string
	logFile      string
	console      bool
	maxParallel  int
	loadTimeout  int
	maxUpload    int64
	corsEnabled  bool
	corsOrigins  string
	shutdownSecs int
}

func newRootCmd() *cobra.Command {
	opts := &options{maxParallel: -1}
	root := &cobra.Command{
		Use:           "speechd",
		Short:         "Speech model lifecycle server with admission control",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(opts.envFile); err != nil {
				return err
			}
			return applyEnv(cmd.Flags())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading SPEECHD_* variables")
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (.yaml, .json or .toml)")
	pf.StringVar(&opts.modelsDir, "models-dir", "", "directory holding models (default "+config.DefaultModelsDir+")")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	pf.BoolVar(&opts.console, "console", false, "human-readable console logs instead of JSON")

	root.AddCommand(newServeCmd(opts), newModelsCmd(opts))
	return root
}

// loadEnvFile loads a dotenv file without overriding variables already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// resolve builds the effective configuration: file values first, then flags.
func (o *options) resolve() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	o.apply(&cfg)
	cfg.ApplyDefaults()
	dir, err := fsutil.ExpandHome(cfg.ModelsDir)
	if err != nil {
		return cfg, err
	}
	cfg.ModelsDir = dir
	return cfg, cfg.Validate()
}

// apply overlays explicitly provided flag values on cfg.
func (o *options) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.modelsDir != "" {
		cfg.ModelsDir = o.modelsDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	if o.maxParallel >= 0 {
		n := o.maxParallel
		cfg.MaxParallelTranscriptions = &n
	}
	if o.loadTimeout > 0 {
		cfg.LoadTimeoutSeconds = o.loadTimeout
	}
	if o.maxUpload > 0 {
		cfg.MaxUploadBytes = o.maxUpload
	}
	if o.corsEnabled {
		cfg.CORSEnabled = true
	}
	if origins := splitCSV(o.corsOrigins); len(origins) > 0 {
		cfg.CORSAllowedOrigins = origins
	}
}
