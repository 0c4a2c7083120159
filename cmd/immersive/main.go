// cmd/immersive/main.go
//
// Entry point for the Immersive site. All application wiring lives in
// internal/app/bootstrap; WAFFLE drives the lifecycle from config
// loading through graceful shutdown.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/app"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
