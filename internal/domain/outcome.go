package domain

// ReviewOutcome is the learner's self-reported recall result for a card.
// Box cards accept Correct and Incorrect; interval cards accept Forget,
// Hard, Medium and Easy.
type ReviewOutcome string

// Box policy outcomes.
const (
	ReviewOutcomeCorrect   ReviewOutcome = "correct"
	ReviewOutcomeIncorrect ReviewOutcome = "incorrect"
)

// Interval policy outcomes.
const (
	ReviewOutcomeForget ReviewOutcome = "forget"
	ReviewOutcomeHard   ReviewOutcome = "hard"
	ReviewOutcomeMedium ReviewOutcome = "medium"
	ReviewOutcomeEasy   ReviewOutcome = "easy"
)

// IsValid reports whether o is one of the known outcomes of either policy.
func (o ReviewOutcome) IsValid() bool {
	return o.IsBoxOutcome() || o.IsIntervalOutcome()
}

// IsBoxOutcome reports whether o belongs to the box policy.
func (o ReviewOutcome) IsBoxOutcome() bool {
	switch o {
	case ReviewOutcomeCorrect, ReviewOutcomeIncorrect:
		return true
	default:
		return false
	}
}

// IsIntervalOutcome reports whether o belongs to the interval policy.
func (o ReviewOutcome) IsIntervalOutcome() bool {
	switch o {
	case ReviewOutcomeForget, ReviewOutcomeHard, ReviewOutcomeMedium, ReviewOutcomeEasy:
		return true
	default:
		return false
	}
}

// Policy returns the policy the outcome belongs to, or the zero Policy for an
// unknown outcome.
func (o ReviewOutcome) Policy() Policy {
	switch {
	case o.IsBoxOutcome():
		return PolicyBox
	case o.IsIntervalOutcome():
		return PolicyInterval
	default:
		return 0
	}
}

// OutcomesFor lists the outcomes accepted by the given policy in display order.
func OutcomesFor(p Policy) []ReviewOutcome {
	switch p {
	case PolicyBox:
		return []ReviewOutcome{ReviewOutcomeCorrect, ReviewOutcomeIncorrect}
	case PolicyInterval:
		return []ReviewOutcome{
			ReviewOutcomeForget,
			ReviewOutcomeHard,
			ReviewOutcomeMedium,
			ReviewOutcomeEasy,
		}
	default:
		return nil
	}
}
