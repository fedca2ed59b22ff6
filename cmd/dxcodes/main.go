// Command dxcodes analyzes diagnosis codes in spreadsheet and text files
// from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/JonMunkholm/dxcodes/internal/core/formats" // Register upload formats
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
