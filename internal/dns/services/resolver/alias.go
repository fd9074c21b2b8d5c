package resolver

import (
	"context"
	"fmt"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/common/rrdata"
	"github.com/haukened/dirdns/internal/dns/domain"
	"github.com/haukened/dirdns/internal/dns/gateways/wire"
)

// chaseState captures the progress of matching one question.
type chaseState struct {
	// query is the client question; every answer is owned by its name.
	query domain.Question
	// listing is the directory all hops are matched in.
	listing domain.ZoneListing
	// candidates are the entries of listing that may answer query.
	candidates []domain.ZoneEntry
	// visited holds the local paths on the current chain.
	visited map[string]struct{}
	// depth counts the CNAME hops on the current chain.
	depth int
}

func newChaseState(q domain.Question, listing domain.ZoneListing, entries []domain.ZoneEntry) chaseState {
	return chaseState{
		query:      q,
		listing:    listing,
		candidates: entries,
		visited:    map[string]struct{}{listing.LocalPath: {}},
	}
}

// chase follows the CNAME file e and returns the answers found at its target. Hops are
// matched within the same listing; the target's domain and TLD labels are dropped to find
// the new local path.
//
// A target that has already been visited on this chain, or a chain longer than the
// configured depth, fails with domain.ErrCNAMELoopDetected. A CNAME file that cannot be
// read or parsed is skipped like any other record.
func (r *Resolver) chase(ctx context.Context, logger log.Logger, st *chaseState, e domain.ZoneEntry) ([]domain.ResourceRecord, error) {
	zf, ok := r.read(logger, st, e)
	if !ok {
		return nil, nil
	}
	target, err := cnameTarget(zf.Body)
	if err != nil {
		skip(logger, e, err)
		return nil, nil
	}
	local, _, ok := domain.SplitZoneName(target)
	if !ok {
		logger.Debug(map[string]any{
			"file":   e.Name,
			"target": target.String(),
		}, "CNAME target outside any zone")
		return nil, nil
	}

	if err := r.guardDepth(logger, st, target); err != nil {
		return nil, err
	}
	if err := r.guardLoop(logger, st, target, local); err != nil {
		return nil, err
	}
	st.depth++
	st.visited[local] = struct{}{}
	defer func() {
		st.depth--
		delete(st.visited, local)
	}()

	logger.Debug(map[string]any{
		"file":        e.Name,
		"target":      target.String(),
		"alias_depth": st.depth,
	}, "following CNAME")
	return r.match(ctx, logger, st, local)
}

// guardDepth rejects a hop that would exceed the configured maximum depth.
func (r *Resolver) guardDepth(logger log.Logger, st *chaseState, target domain.Name) error {
	if st.depth+1 <= r.maxDepth {
		return nil
	}
	logger.Warn(map[string]any{
		"alias_target": target.String(),
		"alias_depth":  st.depth + 1,
		"max_depth":    r.maxDepth,
	}, "Alias depth exceeded")
	return fmt.Errorf("%w: depth %d exceeds %d", domain.ErrCNAMELoopDetected, st.depth+1, r.maxDepth)
}

// guardLoop rejects a hop back to a local path already on the chain.
func (r *Resolver) guardLoop(logger log.Logger, st *chaseState, target domain.Name, local string) error {
	if _, seen := st.visited[local]; !seen {
		return nil
	}
	logger.Warn(map[string]any{
		"alias_target": target.String(),
		"alias_depth":  st.depth + 1,
	}, "Alias loop detected")
	return fmt.Errorf("%w: %s revisited", domain.ErrCNAMELoopDetected, target)
}

// cnameTarget parses a CNAME file body into the target name.
func cnameTarget(body string) (domain.Name, error) {
	data, err := rrdata.Encode(domain.RRTypeCNAME, body)
	if err != nil {
		return nil, err
	}
	name, _, err := wire.DecodeName(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: CNAME target: %v", domain.ErrMalformedRecordBody, err)
	}
	return name, nil
}
