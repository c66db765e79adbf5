// Copyright © 2026 The Verst authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verstlang/verst/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive verst REPL",
	Long: `Start an interactive read-eval-print loop for verst.

Line editing and in-session command history are supported via readline.
Use Ctrl-D or Ctrl-C to exit.

Example REPL session:
  verst> 1 + 2
  3
  verst> fn square(x) = x * x
  ()
  verst> square 5
  25
  verst> let d = 5 m
  ()
  verst> d / 2 s
  5/2 m*s^-1`,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl(filepath.Base(os.Args[0]) + "> ")
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
