package nats

import (
	"github.com/nats-io/nats.go"
)

type Bus struct {
	nc *nats.Conn
}

func NewBus(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

func (b *Bus) Publish(topic string, data []byte) error {
	return b.nc.Publish(topic, data)
}

// Connect returns a nil conn when url is empty; callers fall back to a noop bus.
func Connect(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	return nats.Connect(url, nats.Name("payment-authorizer"), nats.MaxReconnects(-1))
}
