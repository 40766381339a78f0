package cmd

import (
	"fmt"
	"os"

	"github.com/philipp01105/logtree/config"
	"github.com/philipp01105/logtree/logger"
)

func readConfig(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return data, nil
}

// configuredRegistry loads path and applies it to a fresh registry
func configuredRegistry(path string) (*logger.Registry, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	reg := logger.NewRegistry()
	if err := config.Apply(cfg, reg); err != nil {
		_ = reg.Shutdown()
		return nil, fmt.Errorf("apply config: %w", err)
	}
	return reg, nil
}
