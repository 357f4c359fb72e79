package main

import "github.com/phishshield/phishscore/internal/cli"

func main() {
	cli.Main()
}
