package main

import (
	"os"

	"github.com/tickworks/countdown/cmd/countdown/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
