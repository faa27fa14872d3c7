// Package main provides the CLI entrypoint for modelgen.
//
// modelgen reads Go entity packages and a YAML spec file, then writes:
//   - a metamodel per entity, embeddable and mapped superclass
//   - DTO, QO and VO projections for every named spec
package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return 0
		}

		return 1
	}

	return 0
}
