package main

import "github.com/sparques/rcpulse/internal/cli"

func main() {
	cli.Execute()
}
