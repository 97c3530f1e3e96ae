package main

import "github.com/strrl/trackdash/cmd/trackdash/commands"

func main() {
	commands.Execute()
}
