// Copyright © 2026 The Verst authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "verst",
	Short: "Verst — unit-aware expression language",
	Long: `Verst is a small statically checked expression language with first-class
syntax, hygienic macros, and unit-aware arithmetic, implemented in Go.

Getting started:
  verst run file.vt            Run a source file
  verst run -e 'double_it 10 + 5'
                               Evaluate an expression
  verst check file.vt          Evaluate and report all diagnostics
  verst repl                   Start an interactive REPL

Language overview:
  Statements are newline terminated. Values are bound with let and updated
  with plain assignment. Functions are defined with fn name(args) = expr and
  macros with macro name(args) = expr; macros receive their arguments as
  unevaluated syntax and build replacements with quote templates, splicing
  call-site syntax back in with ${x} and ${...xs}. Macro expansion is
  hygienic unless the definition is marked @unhygienic. Numeric literals can
  carry units, as in 5 m or 2.5 kg, and arithmetic tracks dimensions.

More information:
  Source code:     https://github.com/verstlang/verst`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.verst.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".verst" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".verst")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
