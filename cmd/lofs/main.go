package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/lostfound/internal/app"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {
	fmt.Fprintf(os.Stderr, "lofs version: %s, build date: %s\n", buildVersion, buildDate)

	a, err := app.New(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := a.Run(context.Background()); err != nil {
		os.Exit(1)
	}
}
