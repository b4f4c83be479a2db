package profile

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// record is the gob-encoded wire shape of the compiled profile.pbs
// artifact. It mirrors Profile's exported fields exactly; Profile itself
// is not gob-registered directly so the derived referredSysdicts field
// never leaks into the serialized form.
type record struct {
	Intents []Intent
}

// Load reads a compiled profile.pbs artifact from disk.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a compiled profile.pbs payload already read into memory.
func Decode(data []byte) (*Profile, error) {
	var rec record
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}
	p := New(rec.Intents)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode produces the compiled profile.pbs payload for p.
func Encode(p *Profile) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(record{Intents: p.Intents}); err != nil {
		return nil, fmt.Errorf("profile: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Save compiles p and writes it to path as profile.pbs.
func Save(p *Profile, path string) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
