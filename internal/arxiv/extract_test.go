package arxiv

import "testing"

func TestExtractIDNormalizesBothURLForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want string
	}{
		{"check out https://arxiv.org/abs/2101.00001", "2101.00001"},
		{"https://arxiv.org/pdf/2101.00001", "2101.00001"},
		{"https://arxiv.org/pdf/2101.00001.pdf", "2101.00001"},
		{"<https://arxiv.org/abs/2101.00001>", "2101.00001"},
		{"http://ARXIV.org/abs/2101.00001", "2101.00001"},
		{"https://arxiv.org/abs/2101.00001v2", "2101.00001v2"},
		{"https://arxiv.org/pdf/2101.00001v2.pdf", "2101.00001v2"},
		{"old style https://arxiv.org/abs/hep-th/9901001", "hep-th/9901001"},
		{"https://arxiv.org/pdf/hep-th/9901001.pdf", "hep-th/9901001"},
		{"https://arxiv.org/abs/math.GT/0309136", "math.GT/0309136"},
		{"five digit https://arxiv.org/abs/2307.12345", "2307.12345"},
		{"mid sentence https://arxiv.org/abs/2101.00001 trailing words", "2101.00001"},
	}
	for _, tc := range cases {
		got, ok := ExtractID(tc.text)
		if !ok {
			t.Errorf("ExtractID(%q) found no match, want %q", tc.text, tc.want)
			continue
		}
		if got != tc.want {
			t.Errorf("ExtractID(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractIDAbsAndPDFAgree(t *testing.T) {
	t.Parallel()

	absID, ok := ExtractID("https://arxiv.org/abs/2101.00001")
	if !ok {
		t.Fatal("abs form did not match")
	}
	pdfID, ok := ExtractID("https://arxiv.org/pdf/2101.00001.pdf")
	if !ok {
		t.Fatal("pdf form did not match")
	}
	if absID != pdfID {
		t.Fatalf("abs id %q != pdf id %q", absID, pdfID)
	}
}

func TestExtractIDNoMatch(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"no links here",
		"https://example.com/abs/2101.00001",
		"https://arxiv.org/",
		"https://arxiv.org/abs/",
		"https://arxiv.org/abs/notanid",
		"arxiv.org/pdf/12.34",
		"half a link https://arxiv.o",
	} {
		if id, ok := ExtractID(text); ok {
			t.Errorf("ExtractID(%q) = %q, want no match", text, id)
		}
	}
}
