package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/lostaf-io/lostaf/internal/version"
)

func main() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	if err := NewRootCmd(version.Version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "lostaf: %v\n", err)
		os.Exit(1)
	}
}
