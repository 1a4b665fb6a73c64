package batch

import "testing"

func TestCustomIDRoundTrip(t *testing.T) {
	cases := []struct{ document, page string }{
		{"A.pdf", "1"},
		{"B.pdf", "42"},
		{"annual_report-2023.pdf", "107"},
		{"weird name with spaces.pdf", "3"},
	}
	for _, tc := range cases {
		id, err := EncodeCustomID(tc.document, tc.page)
		if err != nil {
			t.Fatalf("EncodeCustomID(%q, %q) error = %v", tc.document, tc.page, err)
		}
		doc, page, err := DecodeCustomID(id)
		if err != nil {
			t.Fatalf("DecodeCustomID(%q) error = %v", id, err)
		}
		if doc != tc.document || page != tc.page {
			t.Errorf("round trip (%q, %q) -> %q -> (%q, %q)", tc.document, tc.page, id, doc, page)
		}
	}
}

func TestEncodeCustomID_Format(t *testing.T) {
	id, err := EncodeCustomID("A.pdf", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "A.pdf__page-1" {
		t.Errorf("expected A.pdf__page-1, got %s", id)
	}
}

func TestEncodeCustomID_RejectsReservedSeparator(t *testing.T) {
	if _, err := EncodeCustomID("bad__name.pdf", "1"); err == nil {
		t.Error("expected error for document containing reserved separator")
	}
	if _, err := EncodeCustomID("ok.pdf", "1__2"); err == nil {
		t.Error("expected error for page containing reserved separator")
	}
	if _, err := EncodeCustomID("", "1"); err == nil {
		t.Error("expected error for empty document")
	}
	if _, err := EncodeCustomID("ok.pdf", ""); err == nil {
		t.Error("expected error for empty page")
	}
}

func TestDecodeCustomID_Malformed(t *testing.T) {
	for _, id := range []string{"", "no-separator", "doc__1", "doc__page-", "__page-1"} {
		if _, _, err := DecodeCustomID(id); err == nil {
			t.Errorf("expected error for %q", id)
		}
	}
}
