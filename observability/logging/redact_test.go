package logging

import "testing"

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551234", "*****34"},
		{"15555551234", "*********34"},
		{"", ""},
		{"x", "[REDACTED]"},
	}
	for _, tc := range cases {
		if got := MaskPhone(tc.in); got != tc.want {
			t.Fatalf("MaskPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMemberQueryMasksPhoneLengthInput(t *testing.T) {
	attr := MemberQuery("query", "5551234")
	if attr.Value.String() != "*****34" {
		t.Fatalf("phone-length query must be masked, got %q", attr.Value.String())
	}
	attr = MemberQuery("query", "7")
	if attr.Value.String() != "7" {
		t.Fatalf("short card ids stay readable, got %q", attr.Value.String())
	}
}
