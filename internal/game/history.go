package game

import "math"

// RoundRecord is the immutable result of one concluded round. For an early
// (false-start) round, WasEarly is true and ReactionMs/Rating carry no
// meaning and must not be read.
type RoundRecord struct {
	RoundIndex int
	DelayMs    float64
	StimulusAt float64
	ReactionMs int
	Rating     RatingTier
	WasEarly   bool
}

// History is the append-only log of concluded rounds. Records are never
// mutated or removed individually; only the whole log is cleared.
type History struct {
	records []RoundRecord
}

func NewHistory(capacity int) *History {
	return &History{records: make([]RoundRecord, 0, capacity)}
}

// Append adds a record, preserving insertion order.
func (h *History) Append(r RoundRecord) {
	h.records = append(h.records, r)
}

func (h *History) Len() int {
	return len(h.records)
}

// Clear drops every record. Capacity is kept so a fresh run does not
// reallocate.
func (h *History) Clear() {
	h.records = h.records[:0]
}

// Records returns a copy of the log; callers cannot mutate the original.
func (h *History) Records() []RoundRecord {
	out := make([]RoundRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Summary aggregates a completed session. Defined is false when no non-early
// rounds exist; in that case the numeric fields and Overall carry no meaning
// and must not be displayed as values.
type Summary struct {
	Rounds    int
	Earlies   int
	AverageMs int
	BestMs    int
	WorstMs   int
	Overall   RatingTier
	Defined   bool
}

// Summarize computes aggregates over the full history on demand. Early rounds
// count toward Rounds and Earlies but are excluded from the numeric
// aggregates. The average is the round-half-up integer mean.
func (h *History) Summarize() Summary {
	s := Summary{Rounds: len(h.records)}

	sum := 0
	valid := 0
	for _, r := range h.records {
		if r.WasEarly {
			s.Earlies++
			continue
		}
		if valid == 0 {
			s.BestMs = r.ReactionMs
			s.WorstMs = r.ReactionMs
		} else {
			if r.ReactionMs < s.BestMs {
				s.BestMs = r.ReactionMs
			}
			if r.ReactionMs > s.WorstMs {
				s.WorstMs = r.ReactionMs
			}
		}
		sum += r.ReactionMs
		valid++
	}

	if valid == 0 {
		return s
	}

	s.AverageMs = int(math.Floor(float64(sum)/float64(valid) + 0.5))
	s.Overall = Classify(s.AverageMs)
	s.Defined = true
	return s
}
