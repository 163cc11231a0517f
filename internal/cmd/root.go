package cmd

import (
	"context"
	"strings"

	"github.com/fauxforce/fauxforce/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "fauxforce",
	Short: "Schema object stub generator for org-backed projects",
	Long: `Fauxforce keeps a project's schema object stubs in sync with its org.
It lists the org's objects, fetches their field metadata, renders one
faux class per object, and reconciles the on-disk stub caches so editor
tooling can offer completion against the org's actual schema.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context. Commands observe it
// via cmd.Context(), so cancelling it stops an in-flight refresh at its next
// checkpoint.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/fauxforce/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/fauxforce")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FAUXFORCE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., FAUXFORCE_ORG_ACCESS_TOKEN for org.access_token
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
