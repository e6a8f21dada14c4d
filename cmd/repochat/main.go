package main

import "github.com/diogo/repochat/internal/commands"

func main() {
	commands.Execute()
}
