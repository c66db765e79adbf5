// Copyright © 2026 The Verst authors

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate files and report every diagnostic",
	Long: `Evaluate source files, continuing past failed top-level forms so every
independent error is reported in one pass.  The exit status is nonzero when
any diagnostic was recorded.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := newSession()
		for i := range args {
			loadFile(env, args[i])
		}
		diags := sessionDiagnostics(env)
		if len(diags) == 0 {
			return
		}
		_ = newRenderer().RenderAll(os.Stderr, diags)
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
