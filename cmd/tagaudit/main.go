package main

import "github.com/DrSkyle/tagaudit/cmd/tagaudit/commands"

func main() {
	commands.Execute()
}
