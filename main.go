package main

import "github.com/tessro/emcee/internal/cli"

func main() {
	cli.Execute()
}
