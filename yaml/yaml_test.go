package yaml

import (
	"testing"

	"github.com/zoobzio/parley"
)

type testStruct struct {
	Name  string `yaml:"name"`
	Value int    `yaml:"value"`
}

func TestNew(t *testing.T) {
	if New() == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestFormat(t *testing.T) {
	c := New()
	if c.Format() != parley.YAML {
		t.Errorf("Format() = %v, want %v", c.Format(), parley.YAML)
	}
	if c.Format().ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.Format().ContentType(), "application/yaml")
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

	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v testStruct
	if err := c.Unmarshal([]byte("name: [unclosed"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestUnmarshalNotUTF8(t *testing.T) {
	c := New()

	var v testStruct
	err := c.Unmarshal([]byte("name: \xff\xfe"), &v)
	if err != errNotUTF8 {
		t.Errorf("Unmarshal() error = %v, want %v", err, errNotUTF8)
	}
}
