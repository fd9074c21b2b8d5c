package domain

import (
	"testing"
)

func TestRRType_IsValid(t *testing.T) {
	cases := []struct {
		value RRType
		want  bool
	}{
		{1, true}, {2, true}, {5, true}, {6, true}, {12, true}, {13, true}, {15, true}, {16, true},
		{28, true}, {33, true}, {41, true}, {44, true}, {64, true}, {65, true}, {255, true}, {257, true},
		{0, false}, {3, false}, {4, false}, {7, false}, {35, false}, {43, false}, {100, false}, {9999, false},
	}
	for _, tc := range cases {
		if got := tc.value.IsValid(); got != tc.want {
			t.Errorf("IsValid(%d) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestRRType_String(t *testing.T) {
	cases := []struct {
		t    RRType
		want string
	}{
		{1, "A"}, {2, "NS"}, {5, "CNAME"}, {6, "SOA"}, {12, "PTR"}, {13, "HINFO"}, {15, "MX"},
		{16, "TXT"}, {28, "AAAA"}, {33, "SRV"}, {41, "OPT"}, {44, "SSHFP"}, {64, "SVCB"},
		{65, "HTTPS"}, {255, "ANY"}, {257, "CAA"},
		{0, "UNKNOWN(0)"}, {3, "UNKNOWN(3)"}, {9999, "UNKNOWN(9999)"},
	}
	for _, tc := range cases {
		if got := tc.t.String(); got != tc.want {
			t.Errorf("String(%d) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestRRTypeFromString(t *testing.T) {
	cases := []struct {
		input string
		want  RRType
	}{
		{"A", 1}, {"NS", 2}, {"CNAME", 5}, {"SOA", 6}, {"PTR", 12}, {"HINFO", 13}, {"MX", 15},
		{"TXT", 16}, {"AAAA", 28}, {"SRV", 33}, {"OPT", 41}, {"SSHFP", 44}, {"SVCB", 64},
		{"HTTPS", 65}, {"ANY", 255}, {"*", 255}, {"CAA", 257},
		{"cname", 5}, {" https ", 65},
		{"UNKNOWN", 0}, {"", 0}, {"foo", 0},
	}
	for _, tc := range cases {
		if got := RRTypeFromString(tc.input); got != tc.want {
			t.Errorf("RRTypeFromString(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestRRType_IsQueryOnly(t *testing.T) {
	if !RRTypeANY.IsQueryOnly() || !RRTypeOPT.IsQueryOnly() {
		t.Error("ANY and OPT should be query-only")
	}
	if RRTypeA.IsQueryOnly() {
		t.Error("A should not be query-only")
	}
}
