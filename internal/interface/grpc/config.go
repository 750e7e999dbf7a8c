package grpcservice

import (
	"fmt"
	"net"
)

type Config struct {
	Port  uint32
	NoTLS bool
}

func (c Config) Validate() error {
	lis, err := net.Listen("tcp", c.address())
	if err != nil {
		return fmt.Errorf("invalid port: %s", err)
	}
	// nolint:all
	defer lis.Close()

	if !c.NoTLS {
		return fmt.Errorf("tls is not supported yet, please set NO_TLS")
	}
	return nil
}

func (c Config) insecure() bool {
	return c.NoTLS
}

func (c Config) address() string {
	return fmt.Sprintf(":%d", c.Port)
}
