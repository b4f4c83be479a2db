package profile

import "fmt"

// Validate checks the uniqueness invariants of spec §3: intent.name is
// unique across the profile, slot.name is unique within an intent.
func (p *Profile) Validate() error {
	seenIntents := make(map[string]struct{}, len(p.Intents))
	for _, intent := range p.Intents {
		if intent.Name == "" {
			return fmt.Errorf("profile: intent with empty name")
		}
		if _, dup := seenIntents[intent.Name]; dup {
			return fmt.Errorf("profile: duplicate intent name %q", intent.Name)
		}
		seenIntents[intent.Name] = struct{}{}

		seenSlots := make(map[string]struct{}, len(intent.Slots))
		for _, slot := range intent.Slots {
			if slot.Name == "" {
				return fmt.Errorf("profile: intent %q has a slot with empty name", intent.Name)
			}
			if _, dup := seenSlots[slot.Name]; dup {
				return fmt.Errorf("profile: intent %q has duplicate slot name %q", intent.Name, slot.Name)
			}
			seenSlots[slot.Name] = struct{}{}
			if slot.DictName == "" {
				return fmt.Errorf("profile: intent %q slot %q has empty dict_name", intent.Name, slot.Name)
			}
		}
	}
	return nil
}
