package main

import "github.com/Magicianred/vbscripttranslator/cmd/vbscripttranslator/commands"

func main() {
	commands.Execute()
}
