package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli := newCLI()
	err := cli.root.ExecuteContext(ctx)
	cli.close()
	stop()

	if err != nil {
		fmt.Fprintln(cli.root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
