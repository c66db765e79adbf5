// Copyright © 2026 The Verst authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verstlang/verst/lang"
	"github.com/verstlang/verst/parser"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run verst code",
	Long:  `Run verst code supplied via the command line or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := newSession()
		for i := range args {
			var res *lang.Val
			if runExpression {
				res = env.LoadString(fmt.Sprintf("arg%d", i+1), args[i])
			} else {
				res = loadFile(env, args[i])
			}
			if res.Kind == lang.KError {
				_, _ = (*lang.ErrorVal)(res).WriteTrace(os.Stderr)
				os.Exit(1)
			}
			if runPrint && res.Kind != lang.KUnit {
				fmt.Println(res)
			}
		}
	},
}

func newSession() *lang.Env {
	env, err := lang.NewSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	env.Runtime.Reader = parser.NewReader(env.Runtime.Interner)
	return env
}

func loadFile(env *lang.Env, path string) *lang.Val {
	f, err := os.Open(path) //nolint:gosec // runs user-specified source files
	if err != nil {
		return lang.Errorf(lang.CondError, "%s", err)
	}
	defer f.Close() //nolint:errcheck // read-only file
	return env.Load(path, f)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as verst expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
