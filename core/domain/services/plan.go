package services

import "github.com/carlosrabelo/bridgevlan/core/domain/entities"

// Plan is the outcome of a reconciler: the writes it wants, in dispatch order,
// and the notes describing each decision
type Plan struct {
	Changed bool
	Intents []entities.MutationIntent
	Notes   []string
}

func (p *Plan) add(intent entities.MutationIntent, note string) {
	p.Intents = append(p.Intents, intent)
	p.Changed = true
	if note != "" {
		p.Notes = append(p.Notes, note)
	}
}

func (p *Plan) note(note string) {
	p.Notes = append(p.Notes, note)
}

// Merge appends other after p
func (p *Plan) Merge(other Plan) {
	p.Changed = p.Changed || other.Changed
	p.Intents = append(p.Intents, other.Intents...)
	p.Notes = append(p.Notes, other.Notes...)
}
