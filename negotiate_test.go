package parley_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/zoobzio/parley"
)

func TestParseAccept(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{"empty", "", nil},
		{"single", "application/json", []string{"application/json"}},
		{"quality order", "application/json;q=0.5, application/msgpack", []string{"application/msgpack", "application/json"}},
		{"specificity breaks ties", "*/*, application/*, application/json", []string{"application/json", "application/*", "*/*"}},
		{"header order breaks ties", "application/yaml, application/json", []string{"application/yaml", "application/json"}},
		{"bare star", "*", []string{"*/*"}},
		{"lower cased", "Application/JSON", []string{"application/json"}},
		{"malformed skipped", "garbage, /json, */json, application/json", []string{"application/json"}},
		{"bad q counts as one", "application/json;q=abc, application/yaml;q=0.9", []string{"application/json", "application/yaml"}},
		{"q clamped", "application/json;q=5, application/yaml;q=-1", []string{"application/json", "application/yaml"}},
		{"comma inside quotes", `application/yaml;foo="a,b";q=0.5, application/json`, []string{"application/json", "application/yaml"}},
		{"escaped quote inside quotes", `application/yaml;foo="a\",b", application/json`, []string{"application/yaml", "application/json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := parley.ParseAccept(tt.header)
			got := make([]string, len(ranges))
			for i, m := range ranges {
				got[i] = m.Essence()
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ParseAccept(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseAccept_QValues(t *testing.T) {
	ranges := parley.ParseAccept("application/json;q=5, application/yaml;q=-1, text/xml;q=0.25")
	want := map[string]float64{"application/json": 1, "application/yaml": 0, "text/xml": 0.25}
	for _, m := range ranges {
		if m.Q != want[m.Essence()] {
			t.Errorf("%s q = %v, want %v", m.Essence(), m.Q, want[m.Essence()])
		}
	}
}

func TestMediaRange_Specificity(t *testing.T) {
	tests := map[string]int{"*/*": 0, "text/*": 1, "text/xml": 2}
	for header, want := range tests {
		ranges := parley.ParseAccept(header)
		if len(ranges) != 1 || ranges[0].Specificity() != want {
			t.Errorf("Specificity(%s) = %v, want %d", header, ranges, want)
		}
	}
}

// Ranges with equal q keep a total order: specificity, then header order.
func TestParseAccept_TieBreakIsStable(t *testing.T) {
	pool := []string{"application/json", "application/yaml", "application/*", "*/*", "text/xml", "text/*", "application/cbor"}
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		perm := rng.Perm(len(pool))
		entries := make([]string, len(perm))
		for j, p := range perm {
			q := []string{"", ";q=0.5", ";q=0.9"}[rng.IntN(3)]
			entries[j] = pool[p] + q
		}
		header := strings.Join(entries, ", ")

		ranges := parley.ParseAccept(header)
		for j := 1; j < len(ranges); j++ {
			prev, cur := ranges[j-1], ranges[j]
			if prev.Q < cur.Q {
				t.Fatalf("%q: q order broken at %d", header, j)
			}
			if prev.Q == cur.Q && prev.Specificity() < cur.Specificity() {
				t.Fatalf("%q: specificity order broken at %d", header, j)
			}
		}
		if again := parley.ParseAccept(header); fmt.Sprint(again) != fmt.Sprint(ranges) {
			t.Fatalf("%q: ordering is not deterministic", header)
		}
	}
}

func TestResolve(t *testing.T) {
	r := newRegistry(t, parley.JSON, parley.MsgPack, parley.XML)

	tests := []struct {
		contentType string
		want        parley.Format
	}{
		{"application/json", parley.JSON},
		{"application/json; charset=utf-8", parley.JSON},
		{"Application/JSON", parley.JSON},
		{"application/problem+json", parley.JSON},
		{"application/x-msgpack", parley.MsgPack},
		{"text/xml; charset=iso-8859-1", parley.XML},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.contentType)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", tt.contentType, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestResolve_NeverDefaults(t *testing.T) {
	r := newRegistry(t, parley.JSON, parley.MsgPack)

	for _, ct := range []string{"", "   ", "application/yaml", "text/plain", "not a media type", "application/"} {
		_, err := r.Resolve(ct)
		if !errors.Is(err, parley.ErrUnsupportedMediaType) {
			t.Errorf("Resolve(%q) error = %v, want ErrUnsupportedMediaType", ct, err)
			continue
		}
		ce, _ := parley.AsCodecError(err)
		if ce.ContentType != ct {
			t.Errorf("ContentType = %q, want %q", ce.ContentType, ct)
		}
		if strings.Join(ce.Accepted, ",") != "application/json,application/msgpack" {
			t.Errorf("Accepted = %v", ce.Accepted)
		}
	}
}

func TestNegotiateTier(t *testing.T) {
	r := newRegistry(t, parley.JSON, parley.MsgPack, parley.YAML, parley.XML)

	tests := []struct {
		name        string
		accept      string
		contentType string
		want        parley.Format
		tier        parley.Tier
	}{
		{"exact accept", "application/msgpack", "", parley.MsgPack, parley.TierAccept},
		{"accept alias", "application/x-yaml", "", parley.YAML, parley.TierAccept},
		{"accept beats content type", "application/yaml", "application/msgpack", parley.YAML, parley.TierAccept},
		{"full wildcard picks default", "*/*", "application/msgpack", parley.JSON, parley.TierAccept},
		{"type wildcard picks priority", "text/*", "", parley.YAML, parley.TierAccept},
		{"quality wins", "application/json;q=0.2, application/xml;q=0.8", "", parley.XML, parley.TierAccept},
		{"unmatched accept falls to content type", "text/csv", "application/msgpack", parley.MsgPack, parley.TierContentType},
		{"no accept uses content type", "", "text/xml", parley.XML, parley.TierContentType},
		{"nothing matches", "text/csv", "text/plain", parley.JSON, parley.TierDefault},
		{"nothing given", "", "", parley.JSON, parley.TierDefault},
		{"malformed accept", ";;;", "", parley.JSON, parley.TierDefault},
		{"q zero excludes exact", "application/json;q=0, */*", "", parley.MsgPack, parley.TierAccept},
		{"q zero excludes content type", "application/msgpack;q=0", "application/msgpack", parley.JSON, parley.TierDefault},
		{"q zero excludes default", "application/json;q=0", "", parley.MsgPack, parley.TierDefault},
		{"q zero wildcard is not a match", "*/*;q=0", "application/yaml", parley.YAML, parley.TierContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, tier := r.NegotiateTier(tt.accept, tt.contentType)
			if f != tt.want || tier != tt.tier {
				t.Errorf("NegotiateTier(%q, %q) = %v/%v, want %v/%v", tt.accept, tt.contentType, f, tier, tt.want, tt.tier)
			}
			if got := r.Negotiate(tt.accept, tt.contentType); got != f {
				t.Errorf("Negotiate() = %v, want %v", got, f)
			}
		})
	}
}

func TestNegotiate_AllExcludedStillTerminates(t *testing.T) {
	r := newRegistry(t, parley.JSON)
	if got := r.Negotiate("application/json;q=0", "application/json"); got != parley.JSON {
		t.Errorf("Negotiate() = %v, want %v", got, parley.JSON)
	}
}

// Whatever the headers, negotiation lands on an enabled format.
func TestNegotiate_AlwaysEnabled(t *testing.T) {
	r := newRegistry(t, parley.CBOR, parley.TOML)
	headers := []string{
		"", "*/*", "application/json", "text/*", "application/*;q=0.1", "application/cbor;q=0",
		"application/toml;q=0, application/cbor;q=0", "\x00\xff", "a/b/c", "application/toml",
	}
	for _, accept := range headers {
		for _, ct := range headers {
			if f := r.Negotiate(accept, ct); !r.Enabled(f) {
				t.Errorf("Negotiate(%q, %q) = %v, not enabled", accept, ct, f)
			}
		}
	}
}

func TestTier_String(t *testing.T) {
	tests := map[parley.Tier]string{
		parley.TierAccept:      "accept",
		parley.TierContentType: "content-type",
		parley.TierDefault:     "default",
		parley.Tier(0):         "unknown",
	}
	for tier, want := range tests {
		if tier.String() != want {
			t.Errorf("String() = %q, want %q", tier.String(), want)
		}
	}
}
