// Package profilefmt compiles a human-authored profile.yaml (matching the
// teacher's own config.yaml authoring convention) down to the gob-encoded
// profile.pbs artifact that internal/domain/profile.Load reads at bot init.
//
// Compiling the profile is a build-time concern (spec.md §1 names "offline
// bot build" as out of scope) but a minimal compiler is included here so a
// bundle can be authored and tested locally without a separate toolchain.
package profilefmt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chatopera/clause/internal/domain/profile"
)

// document is the YAML authoring shape of a profile.yaml file.
type document struct {
	Intents []profile.Intent `yaml:"intents"`
}

// CompileFile reads a profile.yaml source file and compiles it to the
// profile.pbs artifact at outPath.
func CompileFile(yamlPath, outPath string) (*profile.Profile, error) {
	src, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("profilefmt: read %s: %w", yamlPath, err)
	}

	p, err := Compile(src)
	if err != nil {
		return nil, err
	}

	if err := profile.Save(p, outPath); err != nil {
		return nil, fmt.Errorf("profilefmt: write %s: %w", outPath, err)
	}

	return p, nil
}

// Compile parses a profile.yaml payload and builds a validated Profile.
func Compile(yamlSrc []byte) (*profile.Profile, error) {
	var doc document
	if err := yaml.Unmarshal(yamlSrc, &doc); err != nil {
		return nil, fmt.Errorf("profilefmt: parse yaml: %w", err)
	}

	p := profile.New(doc.Intents)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
