package card_review

import "github.com/noteaapp/notea/internal/domain"

// Filter narrows selection. The zero Filter matches every card. A Stage
// only matches box cards.
type Filter struct {
	Policy domain.Policy
	Stage  domain.Stage
}

// Matches reports whether card passes the filter.
func (f Filter) Matches(card domain.Card) bool {
	if f.Policy != 0 && card.Policy() != f.Policy {
		return false
	}
	if f.Stage == 0 {
		return true
	}

	box, ok := card.BoxState()
	if !ok {
		return false
	}
	stage := box.Stage
	if !stage.IsValid() {
		stage = domain.StageDailyReview
	}
	return stage == f.Stage
}

// ParseFilter builds a filter from the textual names used by the API and
// CLI. Empty names leave the field unset.
func ParseFilter(policyName, stageName string) (Filter, error) {
	var f Filter
	if policyName != "" {
		p, err := domain.ParsePolicy(policyName)
		if err != nil {
			return Filter{}, err
		}
		f.Policy = p
	}
	if stageName != "" {
		s, err := domain.ParseStage(stageName)
		if err != nil {
			return Filter{}, err
		}
		if f.Policy == domain.PolicyInterval {
			return Filter{}, domain.NewValidationError("stage", "only box cards have stages", domain.ErrInvalidStage)
		}
		f.Stage = s
	}
	return f, nil
}
