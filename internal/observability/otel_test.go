package observability

import "testing"

func TestSampleRatio(t *testing.T) {
	cases := map[string]float64{
		"":     0.1,
		"junk": 0.1,
		"-1":   0,
		"2":    1,
		"0.5":  0.5,
	}
	for in, want := range cases {
		if got := sampleRatio(in); got != want {
			t.Fatalf("sampleRatio(%q)=%v want %v", in, got, want)
		}
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders("a=1, b = 2 ,bad,=x")
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if parseHeaders("  ") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
