// Command eventsearch searches the event finder backend from the terminal.
//
//	eventsearch -state California -city "Los Angeles" -start 2024-12-25 -type concert
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
