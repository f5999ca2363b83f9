package parley

import (
	"cmp"
	"errors"
	"mime"
	"slices"
	"strconv"
	"strings"
)

// MediaRange is one entry of a parsed Accept header.
type MediaRange struct {
	Type    string
	Subtype string
	Q       float64

	// position in the header, used as the final tie-break
	order int
}

// Essence returns "type/subtype".
func (m MediaRange) Essence() string {
	return m.Type + "/" + m.Subtype
}

// Specificity ranks */* as 0, type/* as 1 and an exact type as 2.
func (m MediaRange) Specificity() int {
	switch {
	case m.Type == "*":
		return 0
	case m.Subtype == "*":
		return 1
	default:
		return 2
	}
}

// ParseAccept parses an Accept header into media ranges sorted by
// preference: higher q first, then more specific ranges, then header order.
// Malformed entries are skipped. A missing or unparsable q counts as 1.
func ParseAccept(header string) []MediaRange {
	var ranges []MediaRange
	order := 0
	for _, part := range splitList(header) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		order++

		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
			continue
		}
		if mediaType == "*" {
			mediaType = "*/*"
		}
		typ, sub, ok := strings.Cut(mediaType, "/")
		if !ok || typ == "" || sub == "" || (typ == "*" && sub != "*") {
			continue
		}

		q := 1.0
		if qs, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(qs, 64); err == nil {
				q = min(max(parsed, 0), 1)
			}
		}

		ranges = append(ranges, MediaRange{Type: typ, Subtype: sub, Q: q, order: order})
	}

	slices.SortStableFunc(ranges, func(a, b MediaRange) int {
		if c := cmp.Compare(b.Q, a.Q); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Specificity(), a.Specificity()); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})
	return ranges
}

// splitList splits a header list on commas outside quoted strings.
func splitList(header string) []string {
	var parts []string
	start, quoted, escaped := 0, false, false
	for i := 0; i < len(header); i++ {
		switch c := header[i]; {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			parts = append(parts, header[start:i])
			start = i + 1
		}
	}
	return append(parts, header[start:])
}

// Tier reports which input decided an encode-direction negotiation.
type Tier uint8

const (
	// TierAccept means a range of the Accept header matched.
	TierAccept Tier = iota + 1

	// TierContentType means the request's Content-Type matched.
	TierContentType

	// TierDefault means neither header matched.
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierAccept:
		return "accept"
	case TierContentType:
		return "content-type"
	case TierDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Resolve selects the decode format from a Content-Type header value.
// Parameters such as charset are ignored. An absent, malformed or disabled
// media type yields a KindUnsupportedMediaType error; there is no default.
func (r *Registry) Resolve(contentType string) (Format, error) {
	if f, ok := r.resolve(contentType); ok {
		return f, nil
	}
	return 0, newUnsupportedError(contentType, r.Accepted())
}

func (r *Registry) resolve(contentType string) (Format, bool) {
	if strings.TrimSpace(contentType) == "" {
		return 0, false
	}
	essence, _, err := mime.ParseMediaType(contentType)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return 0, false
	}
	return r.Lookup(essence)
}

// Negotiate selects the encode format for a response. It tries the Accept
// header, then the request's Content-Type, then Default. It never fails.
func (r *Registry) Negotiate(accept, contentType string) Format {
	f, _ := r.NegotiateTier(accept, contentType)
	return f
}

// NegotiateTier is Negotiate that also reports which tier decided.
//
// Formats named exactly with q=0 in Accept are excluded from every tier
// while another enabled format remains.
func (r *Registry) NegotiateTier(accept, contentType string) (Format, Tier) {
	var excluded [len(mediaTypes)]bool

	if strings.TrimSpace(accept) != "" {
		ranges := ParseAccept(accept)
		for _, m := range ranges {
			if m.Q == 0 && m.Specificity() == 2 {
				if f, ok := r.Lookup(m.Essence()); ok {
					excluded[f] = true
				}
			}
		}
		if f, ok := r.matchAccept(ranges, &excluded); ok {
			return f, TierAccept
		}
	}

	if f, ok := r.resolve(contentType); ok && !excluded[f] {
		return f, TierContentType
	}

	for _, c := range r.codecs {
		if f := c.Format(); !excluded[f] {
			return f, TierDefault
		}
	}
	return r.Default(), TierDefault
}

// matchAccept walks ranges in preference order and returns the first enabled
// format each range admits. Within a wildcard, registry priority order decides.
func (r *Registry) matchAccept(ranges []MediaRange, excluded *[len(mediaTypes)]bool) (Format, bool) {
	for _, m := range ranges {
		if m.Q == 0 {
			// sorted by q, nothing acceptable remains
			break
		}
		switch m.Specificity() {
		case 2:
			if f, ok := r.Lookup(m.Essence()); ok && !excluded[f] {
				return f, true
			}
		case 1:
			for _, c := range r.codecs {
				f := c.Format()
				if !excluded[f] && mediaTypes[f].hasType(m.Type) {
					return f, true
				}
			}
		default:
			for _, c := range r.codecs {
				if f := c.Format(); !excluded[f] {
					return f, true
				}
			}
		}
	}
	return 0, false
}
