package scoring

import (
	"fmt"
	"sort"

	"github.com/aretw0/funnelkit/pkg/domain"
)

const opScore = "score"

// Option is a weighted answer. Options without a Style do not score.
type Option struct {
	ID     string `json:"id" yaml:"id"`
	Style  string `json:"style,omitempty" yaml:"style,omitempty"`
	Points int    `json:"points" yaml:"points"`
}

// Question groups the options a participant picks from.
// MaxSelections of 0 means no limit.
type Question struct {
	ID            string   `json:"id" yaml:"id"`
	Options       []Option `json:"options" yaml:"options"`
	MaxSelections int      `json:"max_selections,omitempty" yaml:"max_selections,omitempty"`
}

// Quiz is a finished quiz definition.
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Answer lists the options picked for one question.
type Answer struct {
	QuestionID string   `json:"question_id" yaml:"question_id"`
	OptionIDs  []string `json:"option_ids" yaml:"option_ids"`
}

// Result is the outcome for one style.
type Result struct {
	Style      string  `json:"style"`
	Points     int     `json:"points"`
	Percentage float64 `json:"percentage"`
	Rank       int     `json:"rank"`
	Primary    bool    `json:"primary"`
}

// Score sums the points of every picked option per style and ranks the
// styles by descending points. Percentage is points over the total points
// awarded, times 100, and 0 when nothing was awarded. Ties keep the order
// in which styles were first scored, walking answers and their option ids
// in input order. Rank 1 is flagged Primary.
//
// Unknown questions or options fail with domain.ErrNotFound. Answering a
// question twice or picking more options than allowed fails with
// domain.ErrInvalidOperation.
func Score(quiz Quiz, answers []Answer) ([]Result, error) {
	questions := make(map[string]Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions[q.ID] = q
	}

	var order []string
	points := make(map[string]int)
	answered := make(map[string]bool, len(answers))

	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			return nil, domain.NotFound(opScore, a.QuestionID)
		}
		if answered[a.QuestionID] {
			return nil, domain.Invalid(opScore, a.QuestionID, "question answered more than once")
		}
		answered[a.QuestionID] = true
		if q.MaxSelections > 0 && len(a.OptionIDs) > q.MaxSelections {
			return nil, domain.Invalid(opScore, a.QuestionID,
				fmt.Sprintf("%d options picked, at most %d allowed", len(a.OptionIDs), q.MaxSelections))
		}

		seen := make(map[string]bool, len(a.OptionIDs))
		for _, optID := range a.OptionIDs {
			if seen[optID] {
				return nil, domain.Invalid(opScore, optID, "option picked more than once")
			}
			seen[optID] = true

			opt, ok := findOption(q, optID)
			if !ok {
				return nil, domain.NotFound(opScore, optID)
			}
			if opt.Style == "" {
				continue
			}
			if _, scored := points[opt.Style]; !scored {
				order = append(order, opt.Style)
			}
			points[opt.Style] += opt.Points
		}
	}

	total := 0
	for _, p := range points {
		total += p
	}

	results := make([]Result, len(order))
	for i, style := range order {
		results[i] = Result{Style: style, Points: points[style]}
		if total != 0 {
			results[i].Percentage = float64(points[style]) / float64(total) * 100
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Points > results[j].Points
	})
	for i := range results {
		results[i].Rank = i + 1
		results[i].Primary = i == 0
	}
	return results, nil
}

func findOption(q Question, id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
