package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/transportqa/suite/internal/config"
)

var version = "0.1.0"

// newApp wires the commands. getenv is os.Getenv outside of tests.
func newApp(getenv func(string) string, stdout io.Writer) *cli.App {
	loadConfig := func() (*config.Config, error) {
		return config.Load(getenv)
	}

	return &cli.App{
		Name:    "transportqa",
		Usage:   "Helpers for the transport request e2e suite",
		Version: version,
		Writer:  stdout,
		Commands: []*cli.Command{
			DateCommand(),
			FixturesCommand(loadConfig),
			CheckConfigCommand(loadConfig),
			ServeFixtureCommand(loadConfig),
			RunsCommand(loadConfig),
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	if err := newApp(os.Getenv, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
