package downloader

import (
	"errors"
	"testing"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name       string
		clientType ClientType
		wantErr    bool
	}{
		{name: "transmission", clientType: ClientTypeTransmission},
		{name: "rqbit", clientType: ClientTypeRQBit},
		{name: "mock", clientType: ClientTypeMock},
		{name: "unknown", clientType: ClientType("qbittorrent"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.clientType, ClientConfig{Host: "localhost", Port: 9091})
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedClient) {
					t.Errorf("Expected ErrUnsupportedClient, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			if client.Type() != tt.clientType {
				t.Errorf("Type() = %v, want %v", client.Type(), tt.clientType)
			}
		})
	}
}

func TestIsClientTypeSupported(t *testing.T) {
	if !IsClientTypeSupported("transmission") {
		t.Error("Expected transmission to be supported")
	}
	if IsClientTypeSupported("nzbget") {
		t.Error("Expected nzbget to be unsupported")
	}
}
