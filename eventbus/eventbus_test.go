package eventbus

import (
	"testing"

	"github.com/danlionis/discord-api/gateway"
)

func TestRoutingKeyLowercasesEventName(t *testing.T) {
	ev := gateway.UnknownDispatch("MESSAGE_CREATE", nil)

	if got := routingKey(ev); got != "message_create" {
		t.Fatalf("routingKey = %q, want %q", got, "message_create")
	}
}

func TestRoutingKeyReadyDispatch(t *testing.T) {
	ev := gateway.ReadyDispatch(&gateway.Ready{SessionID: "abc"})

	if got := routingKey(ev); got != "ready" {
		t.Fatalf("routingKey = %q, want %q", got, "ready")
	}
}
