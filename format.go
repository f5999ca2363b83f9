package parley

import (
	"strings"
)

// Format identifies one wire serialization format.
// The set is closed: backends declare which Format they implement and the
// media-type table below is the only source of MIME names.
type Format uint8

const (
	// JSON is RFC 8259 JSON.
	JSON Format = iota + 1

	// MsgPack is MessagePack.
	MsgPack

	// CBOR is RFC 8949 Concise Binary Object Representation.
	CBOR

	// YAML is YAML 1.2.
	YAML

	// TOML is TOML 1.0.
	TOML

	// XML is XML 1.0.
	XML

	// BSON is MongoDB's binary JSON.
	BSON

	// Protobuf is Protocol Buffers binary wire format.
	Protobuf

	// Gob is Go's self-describing binary format.
	Gob
)

// MediaType pairs a Format with its canonical essence and the aliases
// accepted when matching request headers.
type MediaType struct {
	Format  Format
	Essence string
	Aliases []string

	// Suffix is the RFC 6839 structured syntax suffix (without "+"), if any.
	Suffix string
}

// mediaTypes is indexed by Format. Canonical essence first.
var mediaTypes = [...]MediaType{
	JSON: {
		Format:  JSON,
		Essence: "application/json",
		Suffix:  "json",
	},
	MsgPack: {
		Format:  MsgPack,
		Essence: "application/msgpack",
		Aliases: []string{"application/vnd.msgpack", "application/x-msgpack", "application/x.msgpack"},
		Suffix:  "msgpack",
	},
	CBOR: {
		Format:  CBOR,
		Essence: "application/cbor",
		Suffix:  "cbor",
	},
	YAML: {
		Format:  YAML,
		Essence: "application/yaml",
		Aliases: []string{"application/x-yaml", "application/yml", "text/yaml", "text/x-yaml", "text/yml"},
		Suffix:  "yaml",
	},
	TOML: {
		Format:  TOML,
		Essence: "application/toml",
		Aliases: []string{"application/x-toml", "application/vnd.toml", "text/toml", "text/x-toml", "text/vnd.toml"},
		Suffix:  "toml",
	},
	XML: {
		Format:  XML,
		Essence: "application/xml",
		Aliases: []string{"text/xml"},
		Suffix:  "xml",
	},
	BSON: {
		Format:  BSON,
		Essence: "application/bson",
		Aliases: []string{"application/vnd.bson", "application/x-bson"},
	},
	Protobuf: {
		Format:  Protobuf,
		Essence: "application/x-protobuf",
		Aliases: []string{"application/protobuf", "application/vnd.google.protobuf", "application/x-google-protobuf"},
	},
	Gob: {
		Format:  Gob,
		Essence: "application/x-gob",
		Aliases: []string{"application/gob"},
	},
}

var formatNames = [...]string{
	JSON:     "json",
	MsgPack:  "msgpack",
	CBOR:     "cbor",
	YAML:     "yaml",
	TOML:     "toml",
	XML:      "xml",
	BSON:     "bson",
	Protobuf: "protobuf",
	Gob:      "gob",
}

// Formats returns every known Format in declaration order.
func Formats() []Format {
	out := make([]Format, 0, len(mediaTypes)-1)
	for f := JSON; f <= Gob; f++ {
		out = append(out, f)
	}
	return out
}

// Valid reports whether f is one of the declared formats.
func (f Format) Valid() bool {
	return f >= JSON && f <= Gob
}

// String returns the short name of the format (e.g., "msgpack").
func (f Format) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return formatNames[f]
}

// ContentType returns the canonical MIME essence for the format.
func (f Format) ContentType() string {
	if !f.Valid() {
		return ""
	}
	return mediaTypes[f].Essence
}

// MediaType returns the table entry for f.
func (f Format) MediaType() (MediaType, bool) {
	if !f.Valid() {
		return MediaType{}, false
	}
	return mediaTypes[f], true
}

// ParseFormat maps a short name back to its Format.
func ParseFormat(name string) (Format, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f := JSON; f <= Gob; f++ {
		if formatNames[f] == name {
			return f, true
		}
	}
	return 0, false
}

// matches reports whether essence names this media type, either exactly
// (canonical or alias) or through its structured syntax suffix.
func (m MediaType) matches(essence string) bool {
	if essence == m.Essence {
		return true
	}
	for _, alias := range m.Aliases {
		if essence == alias {
			return true
		}
	}
	if m.Suffix == "" {
		return false
	}
	typ, sub, ok := strings.Cut(essence, "/")
	if !ok {
		return false
	}
	i := strings.LastIndexByte(sub, '+')
	if i < 0 || sub[i+1:] != m.Suffix {
		return false
	}
	return m.hasType(typ)
}

// hasType reports whether any of the names for m uses the top-level type typ.
func (m MediaType) hasType(typ string) bool {
	if topLevel(m.Essence) == typ {
		return true
	}
	for _, alias := range m.Aliases {
		if topLevel(alias) == typ {
			return true
		}
	}
	return false
}

func topLevel(essence string) string {
	typ, _, _ := strings.Cut(essence, "/")
	return typ
}

// LookupEssence finds the Format named by a media-type essence.
// The essence must already be stripped of parameters and lower-cased,
// as returned by mime.ParseMediaType.
func LookupEssence(essence string) (Format, bool) {
	for f := JSON; f <= Gob; f++ {
		if mediaTypes[f].matches(essence) {
			return f, true
		}
	}
	return 0, false
}
