package rtc

import (
	"testing"

	"github.com/akarpov/ringmesh/internal/config"
)

func TestConfigurationStunOnly(t *testing.T) {
	cfg := &config.Config{
		StunServers: []string{"stun:stun.example.org:3478"},
	}

	got := Configuration(cfg)
	if len(got.ICEServers) != 1 {
		t.Fatalf("ICEServers = %d entries, want 1", len(got.ICEServers))
	}
	if got.ICEServers[0].URLs[0] != "stun:stun.example.org:3478" {
		t.Fatalf("URLs = %v", got.ICEServers[0].URLs)
	}
}

func TestConfigurationWithTurn(t *testing.T) {
	cfg := &config.Config{
		StunServers: []string{"stun:stun.example.org:3478"},
		Turn: config.TurnConfig{
			URL:        "turn:turn.example.org:3478",
			Username:   "alice",
			Credential: "s3cret",
		},
	}

	got := Configuration(cfg)
	if len(got.ICEServers) != 2 {
		t.Fatalf("ICEServers = %d entries, want 2", len(got.ICEServers))
	}
	turn := got.ICEServers[1]
	if turn.URLs[0] != "turn:turn.example.org:3478" || turn.Username != "alice" {
		t.Fatalf("turn entry = %+v", turn)
	}
	if cred, ok := turn.Credential.(string); !ok || cred != "s3cret" {
		t.Fatalf("credential = %v", turn.Credential)
	}
}
