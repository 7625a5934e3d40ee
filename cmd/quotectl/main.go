package main

import (
	"os"

	"autoloan-agent/cmd/quotectl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
