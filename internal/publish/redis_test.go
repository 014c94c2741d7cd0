package publish

import (
	"context"
	"testing"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestNewPublisher_Disabled(t *testing.T) {
	p := NewPublisher(config.RedisConfig{Enabled: false})
	defer p.Close()

	if p.Connected() {
		t.Error("disabled publisher should not report connected")
	}

	// Publishing while disabled must be a silent no-op.
	p.Publish(context.Background(), "session-1", gesture.Result{ShapeLabel: "Open"})
}

func TestNewPublisher_UnreachableServer(t *testing.T) {
	// A port nothing listens on: the publisher must degrade to offline
	// mode instead of failing construction.
	p := NewPublisher(config.RedisConfig{
		Enabled: true,
		Addr:    "127.0.0.1:1",
		Prefix:  "mudra-test",
	})
	defer p.Close()

	if p.Connected() {
		t.Error("publisher should be offline when Redis is unreachable")
	}

	p.Publish(context.Background(), "session-1", gesture.Result{ShapeLabel: "Open"})
}
