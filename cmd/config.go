/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reupapp/reup/internal/config"
)

const (
	configName = ".reup"
	envPrefix  = "REUP"
)

// globalAppConfig holds the global application configuration instance.
var globalAppConfig config.AppConfig

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env first if present; it's fine when it doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. REUP_API_TOKEN
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else if _, err := os.Stat(configName); !os.IsNotExist(err) {
		// Project-local .reup/ directory takes priority.
		viper.AddConfigPath(configName)
		viper.SetConfigName(configName)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	for key, value := range config.Defaults() {
		viper.SetDefault(key, value)
	}

	if err := viper.Unmarshal(&globalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	if err := config.Validate(&globalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns a pointer to the global config.AppConfig instance.
func GetConfig() *config.AppConfig {
	return &globalAppConfig
}
