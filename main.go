// Copyright © 2026 The Verst authors

package main

import "github.com/verstlang/verst/cmd"

func main() {
	cmd.Execute()
}
