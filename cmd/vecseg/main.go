// Command vecseg writes random vector segments and streams segments back
// through a vecstream reader.
//
// Usage:
//
//	vecseg gen  -out data/field.vseg -n 1000 -d 128 -type float
//	vecseg dump -store local -root data -name field.vseg
//	vecseg dump -store s3 -bucket vectors -prefix segments/ -name field.vseg
//	vecseg dump -store minio -endpoint localhost:9000 -bucket vectors -name field.vseg
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var errUsage = errors.New("usage: vecseg <gen|dump> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "vecseg:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "gen":
		return runGen(ctx, args[1:], stdout, stderr)
	case "dump":
		return runDump(ctx, args[1:], stdout, stderr)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}
