// Package main is the entry point for the analyze-bcpf CLI.
package main

import "github.com/platformbuild/analyze-bcpf/cmd"

func main() {
	cmd.Execute()
}
