// Copyright © 2026 The Verst authors

// Package repl implements the interactive verst session.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/verstlang/verst/lang"
	"github.com/verstlang/verst/parser"
)

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// RunRepl runs a simple repl in a vanilla verst session.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)

	envOpts := []lang.Config{}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lang.WithStderr(cfg.stderr))
	}
	env, err := lang.NewSession(envOpts...)
	if err != nil {
		errlnf("Language initialization failure: %v", err)
		os.Exit(1)
	}
	env.Runtime.Reader = parser.NewReader(env.Runtime.Interner)

	RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a root environment.
func RunEnv(env *lang.Env, prompt, cont string, opts ...Option) {
	if env.Parent != nil {
		errlnf("REPL environment is not a root environment.")
		os.Exit(1)
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}

	rlCfg := &readline.Config{
		Stdout:            env.Runtime.Stderr,
		Stderr:            env.Runtime.Stderr,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}

	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	reader := parser.NewReader(env.Runtime.Interner)
	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			buf.Reset()
			continue
		}
		if err != nil {
			break
		}
		if buf.Len() == 0 && len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		buf.Write(line)
		buf.WriteString("\n")

		nodes, perr := reader.Read("stdin", strings.NewReader(buf.String()))
		if perr != nil {
			if parser.IsIncomplete(perr) {
				// Wait for a continuation line.
				continue
			}
			buf.Reset()
			fmt.Fprintln(env.Runtime.Stderr, perr) //nolint:errcheck // best-effort error display
			continue
		}
		buf.Reset()

		for _, n := range nodes {
			val := env.Eval(n)
			if val.Kind == lang.KError {
				renderError(env.Runtime.Stderr, val)
			} else {
				fmt.Fprintln(env.Runtime.Stderr, val) //nolint:errcheck // best-effort REPL output
			}
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".verst_history")
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
