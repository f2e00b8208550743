package cli

import (
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/service/card_review"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// policyValue is a --policy flag parsed into a domain.Policy.
type policyValue struct{ p *domain.Policy }

var _ pflag.Value = policyValue{}

func (v policyValue) String() string {
	if v.p == nil || *v.p == 0 {
		return ""
	}
	return v.p.String()
}

func (v policyValue) Set(s string) error {
	p, err := domain.ParsePolicy(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

func (policyValue) Type() string { return "box|interval" }

// stageValue is a --stage flag parsed into a domain.Stage.
type stageValue struct{ s *domain.Stage }

var _ pflag.Value = stageValue{}

func (v stageValue) String() string {
	if v.s == nil || *v.s == 0 {
		return ""
	}
	return v.s.String()
}

func (v stageValue) Set(s string) error {
	stage, err := domain.ParseStage(s)
	if err != nil {
		return err
	}
	*v.s = stage
	return nil
}

func (stageValue) Type() string { return "stage" }

// addFilterFlags registers --policy and --stage on cmd.
func addFilterFlags(cmd *cobra.Command, f *card_review.Filter) {
	cmd.Flags().Var(policyValue{&f.Policy}, "policy", "only cards of this policy")
	cmd.Flags().Var(stageValue{&f.Stage}, "stage",
		"only box cards in this stage (daily_review, every_2_days, weekly, biweekly, mastered)")
}

// checkFilter rejects a stage combined with the interval policy.
func checkFilter(f card_review.Filter) error {
	_, err := card_review.ParseFilter(policyValue{&f.Policy}.String(), stageValue{&f.Stage}.String())
	return err
}
