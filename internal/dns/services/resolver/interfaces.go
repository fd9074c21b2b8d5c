package resolver

import (
	"context"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/domain"
)

// ZoneStore is the read side of the zone directory tree.
type ZoneStore interface {
	// List returns the files of the directory serving name. The bool is false when no
	// directory exists for it.
	List(name domain.Name) (domain.ZoneListing, bool, error)

	// Read loads and parses one file of a listing.
	Read(listing domain.ZoneListing, entry domain.ZoneEntry) (domain.ZoneFile, error)
}

// Handler turns a raw query into a raw reply.
// The transport handles all network protocol details; the handler only sees bytes.
type Handler interface {
	// Resolve answers the query in raw. maxSize is the largest datagram the transport can
	// send; a value <= 0 marks a stream transport. An error means no reply should be sent.
	Resolve(ctx context.Context, logger log.Logger, raw []byte, maxSize int) ([]byte, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, logger log.Logger, raw []byte, maxSize int) ([]byte, error)

// Resolve calls f.
func (f HandlerFunc) Resolve(ctx context.Context, logger log.Logger, raw []byte, maxSize int) ([]byte, error) {
	return f(ctx, logger, raw, maxSize)
}

// ServerTransport defines the interface for DNS server transport implementations.
// UDP and TCP implement it while providing the same request handling contract to the
// service layer.
type ServerTransport interface {
	// Start begins listening for requests and handling them via the provided handler.
	// The transport handles all network protocol concerns and message framing.
	Start(ctx context.Context, handler Handler) error

	// Stop gracefully shuts down the transport, closing connections and cleaning up resources.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}
