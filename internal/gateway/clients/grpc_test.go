package clients

import (
	"context"
	"net"
	"testing"
	"time"

	"catering-backoffice/internal/health"
)

func TestHealthClientAgainstServer(t *testing.T) {
	m := health.NewMonitor(health.PingFunc(func(context.Context) error { return nil }), nil)
	m.Check(context.Background())

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := health.NewGRPCServer(m)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	c, err := NewHealthClient(lis.Addr().String())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, service := range []string{"", health.ComponentDatabase, health.ComponentCache} {
		serving, err := c.Serving(ctx, service)
		if err != nil {
			t.Fatalf("check %q: %v", service, err)
		}
		if !serving {
			t.Fatalf("service %q not serving", service)
		}
	}
}
