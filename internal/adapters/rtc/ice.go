// Package rtc exposes the ICE server set clients need to open a direct
// media path. The server itself never terminates a peer connection; it
// only hands out the configuration.
package rtc

import (
	"github.com/pion/webrtc/v4"

	"github.com/akarpov/ringmesh/internal/config"
)

// Configuration builds the webrtc.Configuration advertised to clients
// from the loaded config: every STUN URL plus the optional TURN entry.
func Configuration(cfg *config.Config) webrtc.Configuration {
	servers := make([]webrtc.ICEServer, 0, len(cfg.StunServers)+1)
	for _, u := range cfg.StunServers {
		servers = append(servers, webrtc.ICEServer{URLs: []string{u}})
	}
	if cfg.Turn.URL != "" {
		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{cfg.Turn.URL},
			Username:   cfg.Turn.Username,
			Credential: cfg.Turn.Credential,
		})
	}
	return webrtc.Configuration{ICEServers: servers}
}
