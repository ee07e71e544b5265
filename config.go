package main

import (
	"flag"
	"fmt"
	"time"
)

const (
	DefaultAddr           = "0.0.0.0:4221"
	DefaultReadBufferSize = 4096
	DefaultMaxHeaderBytes = 8 << 10
	DefaultMaxBodySize    = 10 << 20
)

// Config is built once at startup and shared read-only by all workers.
type Config struct {
	Addr      string
	Directory string // served directory; file routes answer 404 when empty

	MaxConns       int           // 0: unlimited
	ReadTimeout    time.Duration // 0: wait forever
	ReadBufferSize int
	MaxHeaderBytes int
	MaxBodySize    int
}

func DefaultConfig() *Config {
	return &Config{
		Addr:           DefaultAddr,
		ReadBufferSize: DefaultReadBufferSize,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

func ParseConfig(name string, args []string) (*Config, error) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	fs.StringVar(&cfg.Directory, "directory", cfg.Directory, "directory to serve files from")
	fs.IntVar(&cfg.MaxConns, "max-conns", cfg.MaxConns, "maximum concurrent connections (0 for no limit)")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "time to wait for a request (0 for no timeout)")
	fs.IntVar(&cfg.ReadBufferSize, "read-buffer", cfg.ReadBufferSize, "size of the per-connection read buffer")
	fs.IntVar(&cfg.MaxHeaderBytes, "max-header-bytes", cfg.MaxHeaderBytes, "largest accepted request line plus headers in bytes")
	fs.IntVar(&cfg.MaxBodySize, "max-body", cfg.MaxBodySize, "largest accepted request body in bytes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("empty listen address")
	case cfg.MaxConns < 0:
		return fmt.Errorf("invalid -max-conns: %d", cfg.MaxConns)
	case cfg.ReadTimeout < 0:
		return fmt.Errorf("invalid -read-timeout: %v", cfg.ReadTimeout)
	case cfg.ReadBufferSize < 16:
		return fmt.Errorf("invalid -read-buffer: %d", cfg.ReadBufferSize)
	case cfg.MaxHeaderBytes <= 0:
		return fmt.Errorf("invalid -max-header-bytes: %d", cfg.MaxHeaderBytes)
	case cfg.MaxBodySize < 0:
		return fmt.Errorf("invalid -max-body: %d", cfg.MaxBodySize)
	}
	return nil
}
