package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"knp-timelapse/internal/config"
	"knp-timelapse/internal/logging"
	"knp-timelapse/internal/site"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "knpctl",
	Short: "Inspect and serve KNP timelapse sites",
	Long: `knpctl works on the site files read by the KNP timelapse viewer.

Examples:
  # Check a site file
  knpctl validate --site static/KNP/site.json

  # Show which layers are visible for a date once everything has loaded
  knpctl plan --site static/KNP/site.json --date 2020-01-02

  # Serve the tile images under /static/KNP/
  knpctl serve --static-dir static/KNP --addr 127.0.0.1:8080`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Configure(viper.GetString("log_level"), viper.GetString("log_format"))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := config.DefaultSettings()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./knpctl.yaml)")
	rootCmd.PersistentFlags().String("site", defaults.SiteFile, "site JSON file")
	rootCmd.PersistentFlags().String("static-dir", defaults.StaticDir, "directory holding {date}/{tileName}.png")
	rootCmd.PersistentFlags().String("reference-layer", defaults.ReferenceLayer, "style layer tile layers are inserted below")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	viper.BindPFlag("site", rootCmd.PersistentFlags().Lookup("site"))
	viper.BindPFlag("static_dir", rootCmd.PersistentFlags().Lookup("static-dir"))
	viper.BindPFlag("reference_layer", rootCmd.PersistentFlags().Lookup("reference-layer"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("knpctl")
	}

	viper.SetEnvPrefix("KNP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

func loadSite() (*site.Site, error) {
	return site.Load(viper.GetString("site"))
}
