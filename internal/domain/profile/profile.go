// Package profile holds the immutable intent/slot catalog compiled for one
// bot build (spec §3, "Intent profile").
package profile

import "strings"

// Slot is a single named parameter of an intent.
//
// DictName starts with "@" iff it references a system dictionary;
// otherwise it names a custom dictionary compiled into the bundle.
type Slot struct {
	Name     string `yaml:"name"`
	DictName string `yaml:"dict_name"`
	Requires bool   `yaml:"requires"`
	Question string `yaml:"question"`
}

// IsBuiltin reports whether the slot resolves against a system dictionary.
func (s Slot) IsBuiltin() bool {
	return strings.HasPrefix(s.DictName, "@")
}

// Intent is a user goal the bot resolves by filling its slots.
type Intent struct {
	Name  string `yaml:"name"`
	Slots []Slot `yaml:"slots"`
}

// SlotByName returns the slot named name, or false if the intent has none.
func (i Intent) SlotByName(name string) (Slot, bool) {
	for _, s := range i.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// Profile is the ordered, immutable-after-load set of intents for one bot
// build, plus the system dictionaries it refers to (derived on load).
type Profile struct {
	Intents []Intent `yaml:"intents"`

	// referredSysdicts is the set of distinct dict_name values beginning
	// with "@", derived once at load time (spec §3).
	referredSysdicts []string
}

// New builds a Profile from a decoded intent list, deriving the referred
// system-dictionary set. Used by both the YAML compiler and the gob loader.
func New(intents []Intent) *Profile {
	p := &Profile{Intents: intents}
	p.deriveReferredSysdicts()
	return p
}

func (p *Profile) deriveReferredSysdicts() {
	seen := make(map[string]struct{})
	var out []string
	for _, intent := range p.Intents {
		for _, slot := range intent.Slots {
			if !slot.IsBuiltin() {
				continue
			}
			if _, ok := seen[slot.DictName]; ok {
				continue
			}
			seen[slot.DictName] = struct{}{}
			out = append(out, slot.DictName)
		}
	}
	p.referredSysdicts = out
}

// ByName finds the intent with the given name.
func (p *Profile) ByName(name string) (Intent, bool) {
	for _, i := range p.Intents {
		if i.Name == name {
			return i, true
		}
	}
	return Intent{}, false
}

// ReferredSysdicts returns the distinct system-dictionary names referenced
// by any slot in the profile, in first-seen order.
func (p *Profile) ReferredSysdicts() []string {
	out := make([]string, len(p.referredSysdicts))
	copy(out, p.referredSysdicts)
	return out
}

// HasReferredSysdict reports whether dictName is one of the profile's
// referred system dictionaries.
func (p *Profile) HasReferredSysdict(dictName string) bool {
	for _, d := range p.referredSysdicts {
		if d == dictName {
			return true
		}
	}
	return false
}
