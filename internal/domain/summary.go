package domain

// DeckSummary aggregates card counts across the whole collection.
type DeckSummary struct {
	Total    int            `json:"total"`
	Due      int            `json:"due"`
	ByPolicy map[Policy]int `json:"by_policy"`
	// ByStage counts box cards per stage, reviewed or not.
	ByStage map[Stage]int `json:"by_stage"`
	// DueByStage counts box cards that are due per stage.
	DueByStage map[Stage]int `json:"due_by_stage"`
}

// NewDeckSummary returns a summary with every policy and stage present and
// set to zero.
func NewDeckSummary() *DeckSummary {
	s := &DeckSummary{
		ByPolicy:   map[Policy]int{PolicyBox: 0, PolicyInterval: 0},
		ByStage:    make(map[Stage]int, len(Stages())),
		DueByStage: make(map[Stage]int, len(Stages())),
	}
	for _, stage := range Stages() {
		s.ByStage[stage] = 0
		s.DueByStage[stage] = 0
	}
	return s
}

// Add counts card in the summary.
func (s *DeckSummary) Add(card Card, due bool) {
	s.Total++
	if due {
		s.Due++
	}
	s.ByPolicy[card.Policy()]++

	if box, ok := card.BoxState(); ok {
		s.ByStage[box.Stage]++
		if due {
			s.DueByStage[box.Stage]++
		}
	}
}
