package domain

import "strings"

// ApexStem is the file stem that names records owned by the domain itself.
const ApexStem = "@"

// ZoneEntry is one file inside a domain directory of the zone store, named <Stem>.<TYPE>.
// Type is zero when the extension is not a known record type.
type ZoneEntry struct {
	Name string
	Stem string
	Type RRType
}

// NewZoneEntry splits a file name at its last dot into stem and type extension.
func NewZoneEntry(fileName string) ZoneEntry {
	e := ZoneEntry{Name: fileName, Stem: fileName}
	if i := strings.LastIndexByte(fileName, '.'); i >= 0 {
		e.Stem = fileName[:i]
		e.Type = RRTypeFromString(fileName[i+1:])
	}
	return e
}

// ZoneFile is the parsed content of a ZoneEntry: the TTL from the first line and the
// type-specific body that follows it.
type ZoneFile struct {
	Entry ZoneEntry
	TTL   uint32
	Body  string
}

// ZoneListing is the set of files in one <tld>/<domain> directory.
// LocalPath holds the labels left of the domain, joined by dots; it is empty at the apex.
type ZoneListing struct {
	Dir       string
	Domain    Name
	LocalPath string
	Entries   []ZoneEntry
}

// ZoneLabels is the number of trailing labels (domain and TLD) that select a zone directory.
const ZoneLabels = 2

// SplitZoneName divides a name into its local path and the domain that selects a directory.
// The local path is the lowercased labels left of the domain joined by dots, empty at the apex.
// It reports false for names with fewer than two labels.
func SplitZoneName(name Name) (local string, zone Name, ok bool) {
	if len(name) < ZoneLabels {
		return "", nil, false
	}
	lower := name.Lower()
	cut := len(lower) - ZoneLabels
	return strings.Join(lower[:cut], "."), lower[cut:], true
}
