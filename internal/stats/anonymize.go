package stats

import (
	"fmt"

	"github.com/google/uuid"
)

// Pseudonymizer assigns stable per-run substitute identifiers to real
// patient ids. The mapping lives only in the memory of one export
// invocation and is discarded with it; it is never persisted, never shared
// between runs, and never exposed, so a pseudonym cannot be joined back to
// a patient outside the run that produced it. Not safe for concurrent use:
// one export run feeds it from a single goroutine.
type Pseudonymizer struct {
	next   int
	byReal map[uuid.UUID]string
}

func NewPseudonymizer() *Pseudonymizer {
	return &Pseudonymizer{next: 1, byReal: make(map[uuid.UUID]string)}
}

// Pseudonym returns the substitute identifier for a real patient id,
// allocating the next sequence number on first sight and answering from the
// map afterwards. Injective within the run: distinct inputs always get
// distinct outputs.
func (p *Pseudonymizer) Pseudonym(realID uuid.UUID) string {
	if existing, ok := p.byReal[realID]; ok {
		return existing
	}
	pseudonym := fmt.Sprintf("PATIENT_%06d", p.next)
	p.next++
	p.byReal[realID] = pseudonym
	return pseudonym
}

// Count reports how many distinct patients have been pseudonymized.
func (p *Pseudonymizer) Count() int {
	return len(p.byReal)
}

// FacilityCoder does the same for tenant ids so export rows can group by
// facility without naming the hospital.
type FacilityCoder struct {
	next   int
	byReal map[uuid.UUID]string
}

func NewFacilityCoder() *FacilityCoder {
	return &FacilityCoder{next: 1, byReal: make(map[uuid.UUID]string)}
}

func (f *FacilityCoder) Code(tenantID uuid.UUID) string {
	if existing, ok := f.byReal[tenantID]; ok {
		return existing
	}
	code := fmt.Sprintf("FACILITY_%02d", f.next)
	f.next++
	f.byReal[tenantID] = code
	return code
}
