/*
Command calc is the reference host application for cline.

Usage:

	calc 1 2 --sum
	calc 5 3 --sub --json
	calc --serve
*/
package main

import (
	"context"

	"github.com/ldamasio/cline"
	"github.com/ldamasio/cline/internal/calc"
)

// Version is set at build time.
var Version = "dev"

func main() {
	cline.InvokeAndExit(context.Background(), calc.App{}.New, cline.ExitOptions{
		Config:      cline.Config{AppVersion: Version},
		InitLogging: true,
	})
}
