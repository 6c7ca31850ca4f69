package main

import (
	"os"

	"github.com/uihost/todoboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
