// Package resolver answers DNS queries from the zone store. It decodes the query, matches
// each question against the files of its zone directory, follows CNAME files, and encodes
// a reply that fits the transport's size limit.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/domain"
	"github.com/haukened/dirdns/internal/dns/gateways/wire"
)

// DefaultMaxCNAMEDepth bounds the number of CNAME hops followed for one question.
const DefaultMaxCNAMEDepth = 8

// Resolver is the authoritative query engine. It keeps no per-request state and is safe
// for concurrent use.
type Resolver struct {
	zones    ZoneStore
	maxDepth int
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	Zones ZoneStore
	// MaxCNAMEDepth defaults to DefaultMaxCNAMEDepth when <= 0.
	MaxCNAMEDepth int
}

// NewResolver returns a Resolver reading from opts.Zones.
func NewResolver(opts ResolverOptions) *Resolver {
	depth := opts.MaxCNAMEDepth
	if depth <= 0 {
		depth = DefaultMaxCNAMEDepth
	}
	return &Resolver{
		zones:    opts.Zones,
		maxDepth: depth,
	}
}

// Resolve decodes raw, answers every question, and returns the encoded reply.
//
// Input without a complete header, and responses (QR=1), return an error and get no reply.
// A message whose header parsed but which is otherwise unusable gets FORMERR; an opcode
// other than QUERY gets NOTIMP. Zone data problems never change the response code: the
// affected record or question is left out of the answer section.
func (r *Resolver) Resolve(ctx context.Context, logger log.Logger, raw []byte, maxSize int) ([]byte, error) {
	query, err := wire.Decode(raw)
	if err != nil {
		var herr *wire.HeaderError
		if !errors.As(err, &herr) {
			return nil, err
		}
		if herr.Flags.Response {
			return nil, fmt.Errorf("message %d: %w", herr.ID, domain.ErrNotQuery)
		}
		partial := domain.Message{ID: herr.ID, Flags: herr.Flags}
		return r.reject(logger, partial, domain.FORMERR, err)
	}
	if !query.IsQuery() {
		return nil, fmt.Errorf("message %d: %w", query.ID, domain.ErrNotQuery)
	}

	logger = logger.With(map[string]any{"id": query.ID})
	if query.Flags.Opcode != domain.OpcodeQuery {
		return r.reject(logger, query, domain.NOTIMP, fmt.Errorf("opcode %s not implemented", query.Flags.Opcode))
	}
	opt, hasOPT, err := query.FindOPT()
	if err != nil {
		return r.reject(logger, query, domain.FORMERR, err)
	}
	if hasOPT && opt.Version != 0 {
		return r.reject(logger, query, domain.FORMERR, fmt.Errorf("unsupported EDNS version %d", opt.Version))
	}
	if err := validateQuestions(query.Questions); err != nil {
		return r.reject(logger, query, domain.FORMERR, err)
	}

	var answers []domain.ResourceRecord
	for _, q := range query.Questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		answers = append(answers, r.answer(ctx, logger, q)...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply := domain.NewReply(query, domain.NOERROR)
	reply.Questions = query.Questions
	reply.Answers = answers
	if hasOPT {
		reply.Additional = []domain.ResourceRecord{reflectOPT(opt)}
	}

	out, err := assemble(logger, reply, sizeLimit(maxSize, opt, hasOPT))
	if err != nil {
		return nil, err
	}
	logger.Debug(map[string]any{
		"questions": len(reply.Questions),
		"answers":   len(answers),
		"size":      len(out),
	}, "resolved query")
	return out, nil
}

// reject encodes an empty reply carrying rcode.
func (r *Resolver) reject(logger log.Logger, query domain.Message, rcode domain.RCode, cause error) ([]byte, error) {
	logger.Debug(map[string]any{
		"rcode": rcode.String(),
		"error": cause.Error(),
	}, "rejecting query")
	return wire.Encode(domain.NewReply(query, rcode))
}

// validateQuestions rejects messages that a FORMERR should answer.
func validateQuestions(qs []domain.Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("%w: no question", domain.ErrMalformedMessage)
	}
	for _, q := range qs {
		if q.Name.HasWildcard() {
			return fmt.Errorf("%w: wildcard in question %s", domain.ErrMalformedName, q.Name)
		}
	}
	return nil
}

// reflectOPT builds the OPT record returned to an EDNS client. It advertises the payload
// size the client offered and carries no options.
func reflectOPT(opt domain.OPT) domain.ResourceRecord {
	return domain.OPT{UDPSize: opt.UDPSize}.Record()
}
