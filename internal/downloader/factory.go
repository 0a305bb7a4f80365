package downloader

import (
	"errors"
	"fmt"

	"github.com/fetcharr/fetcharr/internal/downloader/mock"
	"github.com/fetcharr/fetcharr/internal/downloader/rqbit"
	"github.com/fetcharr/fetcharr/internal/downloader/transmission"
)

// ErrUnsupportedClient is returned for unrecognized client types.
var ErrUnsupportedClient = errors.New("unsupported download client")

// NewClient creates a new download client of the specified type.
func NewClient(clientType ClientType, config ClientConfig) (Client, error) {
	switch clientType {
	case ClientTypeTransmission:
		return transmission.New(config), nil
	case ClientTypeRQBit:
		return rqbit.New(config), nil
	case ClientTypeMock:
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown client type %s", ErrUnsupportedClient, clientType)
	}
}

// SupportedClientTypes returns a list of all supported client types.
func SupportedClientTypes() []ClientType {
	return []ClientType{
		ClientTypeTransmission,
		ClientTypeRQBit,
		ClientTypeMock,
	}
}

// IsClientTypeSupported returns true if the client type is recognized.
func IsClientTypeSupported(clientType string) bool {
	for _, ct := range SupportedClientTypes() {
		if string(ct) == clientType {
			return true
		}
	}
	return false
}
