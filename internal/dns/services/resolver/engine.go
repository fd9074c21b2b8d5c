package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/common/metrics"
	"github.com/haukened/dirdns/internal/dns/common/rrdata"
	"github.com/haukened/dirdns/internal/dns/domain"
)

// answer resolves one question. Failures are logged and leave the question without answers.
func (r *Resolver) answer(ctx context.Context, logger log.Logger, q domain.Question) []domain.ResourceRecord {
	metrics.ObserveQuestion(qtypeLabel(q.Type))
	logger = logger.With(map[string]any{"question": q.String()})

	listing, ok, err := r.zones.List(q.Name)
	if err != nil {
		metrics.ObserveSkipped(metrics.SkipRead)
		logger.Warn(map[string]any{"error": err.Error()}, "zone listing failed")
		return nil
	}
	if !ok {
		logger.Debug(nil, "no zone directory for question")
		return nil
	}

	st := newChaseState(q, listing, candidates(listing.Entries, q.Type))
	answers, err := r.match(ctx, logger, &st, listing.LocalPath)
	if err != nil {
		if errors.Is(err, domain.ErrCNAMELoopDetected) {
			metrics.ObserveSkipped(metrics.SkipCNAMELoop)
		}
		logger.Warn(map[string]any{"error": err.Error()}, "question skipped")
		return nil
	}
	return answers
}

// candidates selects the entries that can contribute to a question of type qtype:
// entries of that type plus every CNAME entry, or all typed entries for ANY.
func candidates(entries []domain.ZoneEntry, qtype domain.RRType) []domain.ZoneEntry {
	var out []domain.ZoneEntry
	for _, e := range entries {
		if !e.Type.IsValid() || e.Type.IsQueryOnly() {
			continue
		}
		if qtype == domain.RRTypeANY || e.Type == qtype || e.Type == domain.RRTypeCNAME {
			out = append(out, e)
		}
	}
	return out
}

// matchesPath reports whether a file name belongs to local. The apex (empty local path)
// matches "@" files; otherwise the lowercased file name must start with local.
func matchesPath(e domain.ZoneEntry, local string) bool {
	if local == "" {
		return strings.HasPrefix(e.Name, domain.ApexStem)
	}
	return strings.HasPrefix(strings.ToLower(e.Name), local)
}

// stemFor returns the file stem that owns local exactly.
func stemFor(local string) string {
	if local == "" {
		return domain.ApexStem
	}
	return local
}

// chases reports whether CNAME files are followed for qtype rather than returned.
func chases(qtype domain.RRType) bool {
	return qtype != domain.RRTypeCNAME && qtype != domain.RRTypeANY
}

// match collects the answers for local, following CNAME files that own it.
func (r *Resolver) match(ctx context.Context, logger log.Logger, st *chaseState, local string) ([]domain.ResourceRecord, error) {
	var out []domain.ResourceRecord
	for _, e := range st.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !matchesPath(e, local) {
			continue
		}
		if e.Type == domain.RRTypeCNAME && chases(st.query.Type) {
			if !strings.EqualFold(e.Stem, stemFor(local)) {
				continue
			}
			recs, err := r.chase(ctx, logger, st, e)
			if err != nil {
				return nil, err
			}
			out = append(out, recs...)
			continue
		}
		if rr, ok := r.record(logger, st, e); ok {
			out = append(out, rr)
		}
	}
	return out, nil
}

// record reads e and builds its answer owned by the question name.
func (r *Resolver) record(logger log.Logger, st *chaseState, e domain.ZoneEntry) (domain.ResourceRecord, bool) {
	zf, ok := r.read(logger, st, e)
	if !ok {
		return domain.ResourceRecord{}, false
	}
	data, err := rrdata.Encode(e.Type, zf.Body)
	if err != nil {
		skip(logger, e, err)
		return domain.ResourceRecord{}, false
	}
	logAnswer(logger, e, zf.TTL, data)
	return domain.ResourceRecord{
		Name:  st.query.Name,
		Type:  e.Type,
		Class: domain.RRClassIN,
		TTL:   zf.TTL,
		Data:  data,
	}, true
}

func (r *Resolver) read(logger log.Logger, st *chaseState, e domain.ZoneEntry) (domain.ZoneFile, bool) {
	zf, err := r.zones.Read(st.listing, e)
	if err != nil {
		skip(logger, e, err)
		return domain.ZoneFile{}, false
	}
	return zf, true
}

// logAnswer records the served data in its zone-file form.
func logAnswer(logger log.Logger, e domain.ZoneEntry, ttl uint32, data []byte) {
	body, err := rrdata.Decode(e.Type, data)
	if err != nil {
		body = fmt.Sprintf("%x", data)
	}
	logger.Debug(map[string]any{
		"file": e.Name,
		"type": e.Type.String(),
		"ttl":  ttl,
		"data": body,
	}, "answer record")
}

// skip logs and counts a zone file that could not be served.
func skip(logger log.Logger, e domain.ZoneEntry, err error) {
	reason := metrics.SkipRead
	if errors.Is(err, domain.ErrMalformedRecordBody) ||
		errors.Is(err, domain.ErrMalformedName) ||
		errors.Is(err, domain.ErrUnsupportedParameter) ||
		errors.Is(err, domain.ErrUnsupportedType) {
		reason = metrics.SkipBody
	}
	metrics.ObserveSkipped(reason)
	logger.Warn(map[string]any{
		"file":   e.Name,
		"reason": reason,
		"error":  err.Error(),
	}, "skipping zone file")
}

// qtypeLabel keeps the qtype metric label set closed.
func qtypeLabel(t domain.RRType) string {
	if !t.IsValid() {
		return "OTHER"
	}
	return t.String()
}
