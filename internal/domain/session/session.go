// Package session holds the per-conversation mutable state described in
// spec.md §3, and the mutation API (C11) used to bind a session to a newly
// classified intent.
package session

import "github.com/chatopera/clause/internal/domain/profile"

// Entity is one slot's runtime value, one per slot of the bound intent.
type Entity struct {
	Name     string
	DictName string
	Requires bool
	Builtin  bool
	Val      string
}

// Filled reports whether the entity currently holds a value.
func (e Entity) Filled() bool {
	return e.Val != ""
}

// Session is the per-conversation state carried across turns.
type Session struct {
	IntentName string
	Entities   []Entity

	IsProactive       bool
	ProactiveSlotname string
	ProactiveDictname string

	IsFallback bool
	Resolved   bool
}

// New returns an empty, unbound session.
func New() *Session {
	return &Session{}
}

// EntityByName finds the session entity with the given name.
func (s *Session) EntityByName(name string) (*Entity, bool) {
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i], true
		}
	}
	return nil, false
}

// SetEntityValue sets the value of the named entity, if present.
// Returns false if no entity by that name exists on the session.
func (s *Session) SetEntityValue(name, value string) bool {
	e, ok := s.EntityByName(name)
	if !ok {
		return false
	}
	e.Val = value
	return true
}

// SetEntitiesByIntentName binds the session to intentName (C11, spec §4.7):
// clears entities, finds the intent in the profile, appends one entity per
// slot with name/dict_name/requires copied and builtin derived from
// dict_name, val empty. Returns false if no such intent exists.
func SetEntitiesByIntentName(p *profile.Profile, intentName string, s *Session) bool {
	s.Entities = nil

	intent, ok := p.ByName(intentName)
	if !ok {
		return false
	}

	entities := make([]Entity, 0, len(intent.Slots))
	for _, slot := range intent.Slots {
		entities = append(entities, Entity{
			Name:     slot.Name,
			DictName: slot.DictName,
			Requires: slot.Requires,
			Builtin:  slot.IsBuiltin(),
		})
	}

	s.IntentName = intentName
	s.Entities = entities
	return true
}

// IsResolvedAgainst reports whether every required slot of intent has a
// non-empty value in the session (spec invariant 2).
func (s *Session) IsResolvedAgainst(intent profile.Intent) bool {
	for _, slot := range intent.Slots {
		if !slot.Requires {
			continue
		}
		e, ok := s.EntityByName(slot.Name)
		if !ok || !e.Filled() {
			return false
		}
	}
	return true
}
