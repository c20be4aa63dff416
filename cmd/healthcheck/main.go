// Command healthcheck probes the gateway's gRPC health service and exits
// non-zero when it is not serving. It is meant for container health checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"catering-backoffice/internal/gateway/clients"
)

func main() {
	addr := flag.String("addr", "localhost:50052", "gateway gRPC address")
	service := flag.String("service", "", "component to check (database, cache); empty for the whole gateway")
	timeout := flag.Duration("timeout", 3*time.Second, "probe timeout")
	flag.Parse()

	c, err := clients.NewHealthClient(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	serving, err := c.Serving(ctx, *service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		os.Exit(1)
	}
	if !serving {
		fmt.Fprintf(os.Stderr, "%q is not serving\n", *service)
		os.Exit(1)
	}
	fmt.Println("SERVING")
}
