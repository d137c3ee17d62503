package main

import "github.com/soltixdb/gapscan/cmd/tools/gapscan/commands"

func main() {
	commands.Execute()
}
