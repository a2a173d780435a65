package main

import "github.com/reoring/lenient/internal/cli"

func main() {
	cli.Execute()
}
