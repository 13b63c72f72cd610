package main

import "github.com/plasmalab/limsctl/cmd/limsctl/commands"

func main() {
	commands.Execute()
}
