package main

import "github.com/10EMMMM/nbaanalysts/internal/cli"

func main() {
	cli.Execute()
}
