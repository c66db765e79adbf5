// Copyright © 2026 The Verst authors

package repl

import (
	"sort"
	"strings"

	"github.com/verstlang/verst/lang"
)

// symbolCompleter implements readline.AutoCompleter by enumerating global
// names from the current verst session.
type symbolCompleter struct {
	env *lang.Env
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or
	// an opening delimiter).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '[' || ch == '{' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		suffix := sym[len(prefix):]
		result = append(result, []rune(suffix))
	}
	return result, len(prefix)
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, name := range c.env.Runtime.Module.Names() {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, word := range []string{"let", "fn", "macro", "quote", "typeof", "if", "then", "else", "true", "false"} {
		if strings.HasPrefix(word, prefix) && !seen[word] {
			seen[word] = true
			result = append(result, word)
		}
	}
	sort.Strings(result)
	return result
}
