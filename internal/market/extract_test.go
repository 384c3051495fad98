package market_test

import (
	"errors"
	"strings"
	"testing"

	"tuimarket/internal/market"
)

func TestExtract_ReturnsSpanBetweenMarkerAndStop(t *testing.T) {
	cases := []struct {
		payload string
		marker  string
		stop    byte
		want    string
	}{
		{`{"regularMarketPrice":101.5,"x":1}`, `"regularMarketPrice":`, ',', "101.5"},
		{`{"shortName":"Test Co","a":2}`, `"shortName":"`, '"', "Test Co"},
		{`junk before "shortName":"" after`, `"shortName":"`, '"', ""},
		{`a=1;a=2;`, `a=`, ';', "1"},
	}
	for _, tc := range cases {
		got, err := market.Extract([]byte(tc.payload), tc.marker, tc.stop, 255)
		if err != nil {
			t.Errorf("Extract(%q, %q): unexpected error %v", tc.payload, tc.marker, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Extract(%q, %q) = %q, want %q", tc.payload, tc.marker, got, tc.want)
		}
		if strings.IndexByte(got, tc.stop) >= 0 {
			t.Errorf("Extract(%q) result %q contains terminator", tc.payload, got)
		}
	}
}

func TestExtract_Failures(t *testing.T) {
	payload := []byte(`{"regularMarketPrice":101.5`)

	if got, err := market.Extract(payload, `"missing":`, ',', 63); !errors.Is(err, market.ErrMarkerNotFound) || got != "" {
		t.Errorf("missing marker: got %q, %v", got, err)
	}
	if got, err := market.Extract(payload, `"regularMarketPrice":`, ',', 63); !errors.Is(err, market.ErrTerminatorNotFound) || got != "" {
		t.Errorf("missing terminator: got %q, %v", got, err)
	}
	long := []byte(`"n":"` + strings.Repeat("x", 300) + `"`)
	if got, err := market.Extract(long, `"n":"`, '"', 255); !errors.Is(err, market.ErrFieldTooLong) || got != "" {
		t.Errorf("too long: got %q, %v", got, err)
	}
	exact := []byte(`"n":"` + strings.Repeat("x", 255) + `"`)
	if got, err := market.Extract(exact, `"n":"`, '"', 255); err != nil || len(got) != 255 {
		t.Errorf("exact capacity: got len %d, %v", len(got), err)
	}
}

func TestExtract_StaysInsideSlice(t *testing.T) {
	backing := []byte(`"p":12,"p":99,`)
	// The terminator for the first value sits outside the declared length.
	bounded := backing[:6]
	if _, err := market.Extract(bounded, `"p":`, ',', 63); !errors.Is(err, market.ErrTerminatorNotFound) {
		t.Fatalf("expected terminator error on bounded slice, got %v", err)
	}
}

func TestParseFloat(t *testing.T) {
	cases := map[string]float64{
		"101.5":   101.5,
		" 42":     42,
		"-3.25":   -3.25,
		"1e3":     1000,
		"12abc":   12,
		"7.5}":    7.5,
		"1e":      1,
		"null":    0,
		"":        0,
		".":       0,
		"-":       0,
		"\"1.0\"": 0,
	}
	for in, want := range cases {
		if got := market.ParseFloat(in); got != want {
			t.Errorf("ParseFloat(%q) = %v, want %v", in, got, want)
		}
	}
}
