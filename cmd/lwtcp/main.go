// lwtcp - TCP relay over the lwnet command interface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lwnet/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lwtcp: %v\n", err)
		os.Exit(1)
	}
}
