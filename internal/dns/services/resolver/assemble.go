package resolver

import (
	"sort"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/common/metrics"
	"github.com/haukened/dirdns/internal/dns/domain"
	"github.com/haukened/dirdns/internal/dns/gateways/wire"
)

// sizeLimit returns the largest reply that may be sent. Streams (maxSize <= 0) are bounded
// only by the message format. Datagrams get 512 octets, or the client's EDNS payload size,
// never more than maxSize and never less than 512.
func sizeLimit(maxSize int, opt domain.OPT, hasOPT bool) int {
	if maxSize <= 0 {
		return wire.MaxMessageSize
	}
	limit := domain.MinUDPPayloadSize
	if hasOPT {
		limit = opt.EffectiveUDPSize()
	}
	ceiling := min(max(maxSize, domain.MinUDPPayloadSize), wire.MaxMessageSize)
	return min(limit, ceiling)
}

// assemble encodes reply within limit. Answers are dropped from the end until it fits and
// TC is set when any were dropped. If the bare header and question still do not fit, the
// additional and then question sections are dropped as well.
func assemble(logger log.Logger, reply domain.Message, limit int) ([]byte, error) {
	out, err := wire.Encode(reply)
	if err != nil {
		return nil, err
	}
	if len(out) <= limit {
		return out, nil
	}

	total := len(reply.Answers)
	answers := reply.Answers
	reply.Flags.Truncated = true

	// The encoded size grows with every answer kept, so the largest prefix that fits can be
	// found by bisection.
	var encodeErr error
	keep := sort.Search(total+1, func(n int) bool {
		reply.Answers = answers[:n]
		b, err := wire.Encode(reply)
		if err != nil {
			encodeErr = err
			return true
		}
		return len(b) > limit
	}) - 1
	if encodeErr != nil {
		return nil, encodeErr
	}
	if keep < 0 {
		keep = 0
	}
	reply.Answers = answers[:keep]
	if keep == 0 {
		reply.Answers = nil
	}

	out, err = wire.Encode(reply)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		reply.Additional = nil
		if out, err = wire.Encode(reply); err != nil {
			return nil, err
		}
	}
	if len(out) > limit {
		reply.Questions = nil
		if out, err = wire.Encode(reply); err != nil {
			return nil, err
		}
	}

	metrics.ObserveTruncated()
	logger.Debug(map[string]any{
		"answers": total,
		"kept":    keep,
		"limit":   limit,
		"size":    len(out),
	}, "truncated reply")
	return out, nil
}
