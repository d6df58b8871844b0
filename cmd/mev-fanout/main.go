package main

import "github.com/flashbots/mev-fanout/cli"

func main() {
	cli.Main()
}
