package card_review

import (
	"testing"

	"github.com/noteaapp/notea/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Matches(t *testing.T) {
	t.Parallel()

	box := domain.Card{State: domain.BoxState{Stage: domain.StageWeekly}}
	corrupt := domain.Card{State: domain.BoxState{Stage: domain.Stage(0)}}
	interval := domain.Card{State: domain.NewIntervalState()}

	tests := []struct {
		name   string
		filter Filter
		card   domain.Card
		want   bool
	}{
		{name: "zero filter box", filter: Filter{}, card: box, want: true},
		{name: "zero filter interval", filter: Filter{}, card: interval, want: true},
		{name: "box policy", filter: Filter{Policy: domain.PolicyBox}, card: box, want: true},
		{name: "box policy rejects interval", filter: Filter{Policy: domain.PolicyBox}, card: interval, want: false},
		{name: "interval policy", filter: Filter{Policy: domain.PolicyInterval}, card: interval, want: true},
		{name: "stage match", filter: Filter{Stage: domain.StageWeekly}, card: box, want: true},
		{name: "stage mismatch", filter: Filter{Stage: domain.StageMastered}, card: box, want: false},
		{name: "stage implies box", filter: Filter{Stage: domain.StageDailyReview}, card: interval, want: false},
		{name: "invalid stage counts as first box", filter: Filter{Stage: domain.StageDailyReview}, card: corrupt, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.filter.Matches(tc.card))
		})
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	f, err := ParseFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, Filter{}, f)

	f, err = ParseFilter("box", "every_2_days")
	require.NoError(t, err)
	assert.Equal(t, Filter{Policy: domain.PolicyBox, Stage: domain.StageEvery2Days}, f)

	f, err = ParseFilter("", "weekly")
	require.NoError(t, err)
	assert.Equal(t, Filter{Stage: domain.StageWeekly}, f)

	_, err = ParseFilter("leitner", "")
	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)

	_, err = ParseFilter("", "monthly")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)

	_, err = ParseFilter("interval", "weekly")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}
