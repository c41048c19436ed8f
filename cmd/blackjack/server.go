package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/coder/quartz"

	"github.com/cardtable/blackjack/cmd/blackjack/shared"
	"github.com/cardtable/blackjack/internal/config"
	"github.com/cardtable/blackjack/internal/server"
)

// ServerCmd runs the multiplayer WebSocket table server
type ServerCmd struct {
	Config string `kong:"default='blackjack.hcl',help='Path to the server configuration file'"`
	Addr   string `kong:"help='Listen address, overrides the configuration'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", c.Addr, err)
		}
		cfg.Server.Address = host
		if cfg.Server.Port, err = strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid port in %q: %w", c.Addr, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s := server.NewServer(cfg, logger, quartz.NewReal())

	ctx := shared.SetupSignalHandler(logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}
