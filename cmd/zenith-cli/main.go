package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/mithrel/zenith/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.NewWithOptions(os.Stderr, log.Options{Prefix: "zenith"}).Error(err)
		os.Exit(1)
	}
}
