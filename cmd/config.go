package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
)

const (
	envFile   = ".env"
	envPrefix = "CWV_AUDIT"
)

func initialize() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("file", envFile).Msg("Failed to load env file")
	}

	if configFilePath != "" {
		vConfig.SetConfigFile(configFilePath)
		cobra.CheckErr(vConfig.ReadInConfig())
		log.Debug().Str("config", configFilePath).Msg("Loaded configuration file")
	}

	cobra.CheckErr(vConfig.BindEnv(apiKeyFlag, "API_KEY", "PAGESPEED_API_KEY"))

	cobra.CheckErr(utils.BindFlags(rootCmd, vConfig, envPrefix))

	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", logLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Logger.Level(level)
}

// expandHome resolves a leading "~" to the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
