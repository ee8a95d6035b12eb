package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version = "0.0.0"

var (
	configFilePath string
	logLevel       string
	apiKey         string
	vConfig        = viper.New()
)

const (
	configFileFlag = "config"
	apiKeyFlag     = "api-key"
)

var rootCmd = &cobra.Command{
	Use:          "cwv-audit",
	Short:        "Core Web Vitals audits for Shopify storefronts",
	Long:         `A command-line tool that audits the home, collection, product and cart pages of a Shopify store with PageSpeed Insights and exports the results.`,
	Version:      Version,
	SilenceUsage: true,
}

func Execute() error {
	vConfig.SetEnvPrefix(envPrefix)
	vConfig.AutomaticEnv()

	cobra.OnInitialize(initialize)

	rootCmd.PersistentFlags().StringVar(&configFilePath, configFileFlag, "", "Path to the config file")
	cobra.CheckErr(rootCmd.MarkPersistentFlagFilename(configFileFlag, "yaml", "yml", "json"))
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiKey, apiKeyFlag, "", "PageSpeed Insights API key (env API_KEY)")

	rootCmd.AddCommand(auditCmd(), normalizeCmd(), routesCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Error executing root command")
		return err
	}
	return nil
}
