// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the application.
type Options struct {
	// Backend selects the durable slot backend: "file" or "sqlite".
	Backend string `json:"backend" env:"PORTAL_STORE_BACKEND"`

	// StorePath is the file-backend directory or the sqlite database path.
	StorePath string `json:"store_path" env:"PORTAL_STORE_PATH"`

	// LogLevel sets the zap log level.
	LogLevel string `json:"log_level" env:"PORTAL_LOG_LEVEL"`

	// Config is the path to the Config file.
	Config string `json:"-" env:"CONFIG"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Backend, "b", "file", "store backend: file or sqlite")
	flag.StringVar(&options.StorePath, "s", "portal-data", "store directory (file) or database path (sqlite)")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional JSON config file and
// environment variables to set configuration values. Environment variables
// take precedence over the file, the file over flags. It returns a pointer
// to the Options struct containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if err := env.Parse(options); err != nil {
		log.Fatalf("error while parsing environment: %v", err)
	}

	return options
}
