package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

const version = "0.1.0"

var (
	configOption  = flag.String("config", "", "path to the config file (default: search .gqlmodelgen.yml upwards)")
	verboseOption = flag.Bool("verbose", false, "enable debug logging")
	versionOption = flag.Bool("version", false, "gqlmodelgen version")
)

func main() {
	flag.Parse()

	if *versionOption {
		fmt.Printf("gqlmodelgen v%s\n", version)

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, options{configFile: *configOption, verbose: *verboseOption}, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
