// Package zone reads authoritative records from a directory tree laid out as
// <root>/<tld>/<domain>/<stem>.<TYPE>, where <stem> is "@" for the domain itself.
// Each file holds a TTL on its first line and a type-specific body after it.
package zone

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/domain"
)

// Store is a read-only view of a zone directory tree. It is safe for concurrent use.
type Store struct {
	root   string
	index  *fileIndex
	logger log.Logger
}

// New returns a Store rooted at root. indexSize bounds the read-through index of parsed
// files; 0 disables it.
func New(root string, indexSize int, logger log.Logger) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("zone root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("zone root %s is not a directory", root)
	}
	s := &Store{root: root, logger: logger}
	if indexSize > 0 {
		idx, err := newFileIndex(indexSize)
		if err != nil {
			return nil, err
		}
		s.index = idx
	}
	return s, nil
}

// safeSegment reports whether a label can be used as a single path element.
func safeSegment(label string) bool {
	return label != "" && label != "." && label != ".." && !strings.ContainsAny(label, `/\`)
}

// List returns the files of the directory serving name. It reports false, without an error,
// when the name has fewer than two labels or either directory does not exist.
func (s *Store) List(name domain.Name) (domain.ZoneListing, bool, error) {
	local, apex, ok := domain.SplitZoneName(name)
	if !ok {
		return domain.ZoneListing{}, false, nil
	}
	dom, tld := apex[0], apex[1]
	if !safeSegment(tld) || !safeSegment(dom) {
		return domain.ZoneListing{}, false, nil
	}

	dir := filepath.Join(s.root, tld, dom)
	for _, p := range []string{filepath.Join(s.root, tld), dir} {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ZoneListing{}, false, nil
		}
		if err != nil {
			return domain.ZoneListing{}, false, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			return domain.ZoneListing{}, false, nil
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.ZoneListing{}, false, fmt.Errorf("list %s: %w", dir, err)
	}

	listing := domain.ZoneListing{
		Dir:       dir,
		Domain:    apex,
		LocalPath: local,
	}
	// os.ReadDir returns entries sorted by file name, which keeps answers deterministic.
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		listing.Entries = append(listing.Entries, domain.NewZoneEntry(e.Name()))
	}
	s.logger.Debug(map[string]any{
		"dir":     dir,
		"local":   local,
		"entries": len(listing.Entries),
	}, "listed zone directory")
	return listing, true, nil
}

// Read loads one file of a listing, consulting the index first when it is enabled.
func (s *Store) Read(listing domain.ZoneListing, entry domain.ZoneEntry) (domain.ZoneFile, error) {
	if entry.Name != filepath.Base(entry.Name) || !safeSegment(entry.Name) {
		return domain.ZoneFile{}, fmt.Errorf("invalid zone file name %q", entry.Name)
	}
	path := filepath.Join(listing.Dir, entry.Name)

	if s.index == nil {
		content, err := os.ReadFile(path)
		if err != nil {
			return domain.ZoneFile{}, fmt.Errorf("read %s: %w", path, err)
		}
		return ParseFile(entry, content)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.ZoneFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if zf, ok := s.index.get(path, info); ok {
		return zf, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ZoneFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	zf, err := ParseFile(entry, content)
	if err != nil {
		return domain.ZoneFile{}, err
	}
	s.index.put(path, info, zf)
	return zf, nil
}

// ParseFile splits file content into the TTL line and the body that follows it.
func ParseFile(entry domain.ZoneEntry, content []byte) (domain.ZoneFile, error) {
	text := string(content)
	ttlLine, body, _ := strings.Cut(text, "\n")
	ttl, err := strconv.ParseUint(strings.TrimSpace(ttlLine), 10, 32)
	if err != nil {
		return domain.ZoneFile{}, fmt.Errorf("%w: %s: ttl: %v", domain.ErrMalformedRecordBody, entry.Name, err)
	}
	return domain.ZoneFile{
		Entry: entry,
		TTL:   uint32(ttl),
		Body:  body,
	}, nil
}
