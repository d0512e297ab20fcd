package transport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lakeroad/sparktel/pkg/config"
)

// New builds the transport selected by the configuration.
func New(logger *zap.Logger, cfg *config.Config) (Transport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	switch cfg.Transport {
	case config.TransportStdout:
		return NewStdoutTransport(logger, nil)
	case config.TransportNATS:
		return NewNATSTransport(logger, cfg.NATS)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
