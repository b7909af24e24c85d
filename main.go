package main

import (
	"os"

	"github.com/grovetools/notify-template/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
