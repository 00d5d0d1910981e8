package payments

import (
	"testing"
	"time"

	"payhub/internal/domain/entities"
	"payhub/internal/infrastructure/config"
)

func TestRegistryFromConfig(t *testing.T) {
	r := NewRegistryFromConfig(config.Config{
		PublicBaseURL:  "http://localhost:3000",
		GatewayTimeout: time.Second,
		MockGateways:   true,
	})

	for _, tag := range entities.KnownGateways {
		g, ok := r.Get(tag)
		if !ok {
			t.Fatalf("expected adapter for %s", tag)
		}
		if g.Name() != tag {
			t.Fatalf("adapter for %s reports %s", tag, g.Name())
		}
	}

	if _, ok := r.Get(entities.Gateway("bitcoin")); ok {
		t.Fatalf("expected unknown gateway to be absent")
	}
}
