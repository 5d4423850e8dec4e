package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const envPrefix = "SPEECHD_"

// envFlags maps flag names to the SPEECHD_* variable that supplies them when
// the flag is not given on the command line.
var envFlags = map[string]string{
	"config":                      "CONFIG",
	"addr":                        "ADDR",
	"models-dir":                  "MODELS_DIR",
	"log-level":                   "LOG_LEVEL",
	"log-file":                    "LOG_FILE",
	"console":                     "LOG_CONSOLE",
	"max-parallel-transcriptions": "MAX_PARALLEL_TRANSCRIPTIONS",
	"load-timeout-seconds":        "LOAD_TIMEOUT_SECONDS",
	"max-upload-bytes":            "MAX_UPLOAD_BYTES",
	"cors":                        "CORS_ENABLED",
	"cors-origins":                "CORS_ORIGINS",
	"shutdown-timeout-seconds":    "SHUTDOWN_TIMEOUT_SECONDS",
}

func envStr(key, def string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		return v
	}
	return def
}

// applyEnv sets every flag that was not passed explicitly from its env var.
func applyEnv(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := envFlags[f.Name]
		if !ok || f.Changed || err != nil {
			return
		}
		if v := envStr(key, ""); v != "" {
			if serr := fs.Set(f.Name, v); serr != nil {
				err = fmt.Errorf("%s%s: %w", envPrefix, key, serr)
			}
		}
	})
	return err
}

// splitCSV splits a comma separated list, trimming blanks and dropping empty items.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
