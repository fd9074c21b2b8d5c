package zone

import (
	"io/fs"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/dirdns/internal/dns/common/metrics"
	"github.com/haukened/dirdns/internal/dns/domain"
)

// indexEntry is a parsed file together with the stat data it was parsed from.
type indexEntry struct {
	modTime time.Time
	size    int64
	file    domain.ZoneFile
}

// fileIndex is an LRU of parsed zone files keyed by path. An entry is served only while the
// file's modification time and size still match, so edits on disk are picked up on the next read.
type fileIndex struct {
	lru *lru.Cache[string, indexEntry]
}

func newFileIndex(size int) (*fileIndex, error) {
	cache, err := lru.New[string, indexEntry](size)
	if err != nil {
		return nil, err
	}
	return &fileIndex{lru: cache}, nil
}

func (i *fileIndex) get(path string, info fs.FileInfo) (domain.ZoneFile, bool) {
	e, found := i.lru.Get(path)
	if !found {
		metrics.ObserveIndex(metrics.IndexMiss)
		return domain.ZoneFile{}, false
	}
	if !e.modTime.Equal(info.ModTime()) || e.size != info.Size() {
		i.lru.Remove(path)
		metrics.ObserveIndex(metrics.IndexStale)
		return domain.ZoneFile{}, false
	}
	metrics.ObserveIndex(metrics.IndexHit)
	return e.file, true
}

func (i *fileIndex) put(path string, info fs.FileInfo, zf domain.ZoneFile) {
	i.lru.Add(path, indexEntry{modTime: info.ModTime(), size: info.Size(), file: zf})
}

// Len returns the number of cached files.
func (i *fileIndex) Len() int {
	return i.lru.Len()
}
