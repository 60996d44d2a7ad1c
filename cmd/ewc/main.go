package main

import (
	"os"

	"github.com/sonemaro/ewc/cmd/ewc/commands"
)

func main() {
	os.Exit(commands.Execute())
}
