package main

import (
	"context"
	"log"
	"os"

	"pilotpro/internal/bootstrap"
	"pilotpro/internal/cli"
	"pilotpro/internal/config"
)

func main() {
	// 1. Load Configuration. A missing or malformed master key aborts here,
	// before any database file is created.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Unable to initialize application: %v", err)
	}
	defer container.Close()

	// 3. Run the interactive app
	app := cli.NewApp(container, os.Stdin, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
