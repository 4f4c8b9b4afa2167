package scheduler

import (
	"math/rand"

	"github.com/arnavshah/student-rota/pkg/models"
)

// Side is a student's seat preference within a shift row
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// PositionNormalizer keeps each student on the same side of every row they appear in
type PositionNormalizer struct {
	rng   *rand.Rand
	sides map[string]Side
}

// NewPositionNormalizer creates a normalizer with an empty preference cache
func NewPositionNormalizer(rng *rand.Rand) *PositionNormalizer {
	return &PositionNormalizer{rng: rng, sides: make(map[string]Side)}
}

// Side returns the cached preference of a student
func (p *PositionNormalizer) Side(student string) (Side, bool) {
	s, ok := p.sides[student]
	return s, ok
}

// Normalize reorders the slots of every row in place. Left students move to the front
// in their original order; right students and unfilled slots follow in theirs.
func (p *PositionNormalizer) Normalize(schedule models.Schedule) {
	for _, entry := range schedule {
		for _, student := range entry.Slots {
			if student == "" {
				continue
			}
			if _, ok := p.sides[student]; !ok {
				p.sides[student] = Side(p.rng.Intn(2))
			}
		}
	}

	for _, entry := range schedule {
		reordered := make([]string, 0, len(entry.Slots))
		for _, student := range entry.Slots {
			if side, ok := p.sides[student]; ok && side == Left {
				reordered = append(reordered, student)
			}
		}
		for _, student := range entry.Slots {
			if side, ok := p.sides[student]; !ok || side == Right {
				reordered = append(reordered, student)
			}
		}
		copy(entry.Slots, reordered)
	}
}
