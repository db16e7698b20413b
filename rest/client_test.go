package rest

import (
	"context"
	"net"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// newTestServer spins up an in-memory fasthttp server (no real socket, no network) and returns
// a Client wired to dial it, plus a func to shut it down.
func newTestServer(t *testing.T, handler fasthttp.RequestHandler) (*Client, func()) {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}

	go func() {
		_ = srv.Serve(ln)
	}()

	client := NewClient("test-token", WithBaseURL("http://test"))
	client.http = &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}

	return client, func() { _ = ln.Close() }
}

func TestDiscoverGatewayDecodesResponse(t *testing.T) {
	client, shutdown := newTestServer(t, func(reqCtx *fasthttp.RequestCtx) {
		if got := string(reqCtx.Request.Header.Peek("Authorization")); got != "Bot test-token" {
			t.Errorf("Authorization header = %q", got)
		}
		reqCtx.SetStatusCode(fasthttp.StatusOK)
		reqCtx.SetBody([]byte(`{
			"url": "wss://gateway.discord.gg",
			"shards": 4,
			"session_start_limit": {
				"total": 1000,
				"remaining": 998,
				"reset_after": 86400000,
				"max_concurrency": 1
			}
		}`))
	})
	defer shutdown()

	info, err := client.DiscoverGateway(context.Background())
	if err != nil {
		t.Fatalf("DiscoverGateway: %v", err)
	}

	if info.URL != "wss://gateway.discord.gg" {
		t.Errorf("URL = %q", info.URL)
	}
	if info.Shards != 4 {
		t.Errorf("Shards = %d, want 4", info.Shards)
	}
	if info.SessionStartLimit.MaxConcurrency != 1 {
		t.Errorf("MaxConcurrency = %d, want 1", info.SessionStartLimit.MaxConcurrency)
	}
	if info.SessionStartLimit.Total != 1000 {
		t.Errorf("Total = %d, want 1000", info.SessionStartLimit.Total)
	}
}

func TestDiscoverGatewayRejectsNonOKStatus(t *testing.T) {
	client, shutdown := newTestServer(t, func(reqCtx *fasthttp.RequestCtx) {
		reqCtx.SetStatusCode(fasthttp.StatusUnauthorized)
	})
	defer shutdown()

	if _, err := client.DiscoverGateway(context.Background()); err == nil {
		t.Fatal("expected an error for a 401 response, got nil")
	}
}
