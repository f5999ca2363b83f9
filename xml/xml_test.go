package xml

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/zoobzio/parley"
)

type testStruct struct {
	XMLName xml.Name `xml:"item"`
	Name    string   `xml:"name"`
	Value   int      `xml:"value"`
}

func TestNew(t *testing.T) {
	if New() == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestFormat(t *testing.T) {
	c := New()
	if c.Format() != parley.XML {
		t.Errorf("Format() = %v, want %v", c.Format(), parley.XML)
	}
	if c.Format().ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", c.Format().ContentType(), "application/xml")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()
	original := testStruct{Name: "test", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored testStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored.Name != original.Name || restored.Value != original.Value {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestWithHeader(t *testing.T) {
	c := WithHeader()

	data, err := c.Marshal(testStruct{Name: "a"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		t.Errorf("Marshal() = %q, want xml declaration prefix", data)
	}

	var restored testStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored.Name != "a" {
		t.Errorf("Name = %q, want %q", restored.Name, "a")
	}
}

func TestMarshalUnsupported(t *testing.T) {
	c := New()
	if _, err := c.Marshal(map[string]int{"a": 1}); err == nil {
		t.Error("Marshal(map) should return error")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v testStruct
	if err := c.Unmarshal([]byte("<item><name>unterminated"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
