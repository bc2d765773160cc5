package directory

import (
	"fmt"

	"github.com/kapu/isv-directory/internal/constants"
	"github.com/kapu/isv-directory/internal/domain"
	"github.com/kapu/isv-directory/internal/util"
	"github.com/sourcegraph/conc/iter"
)

// RenderCard renders the Q&A lines of profile within a word budget counted over
// the text of every emitted line, question labels included.
//
// Pairs without an answer are skipped. The first pair that does not fit is cut
// to the words left after its label and ends the card; if no words are left the
// pair is dropped. Either way the card is marked trimmed.
func RenderCard(profile domain.Profile, budget int) domain.RenderedCard {
	card := domain.RenderedCard{
		Name:  profile.Name,
		Lines: make([]domain.CardLine, 0, len(profile.Answers)),
	}

	totalWords := 0
	for _, qa := range profile.Answers {
		if qa.Answer == "" {
			continue
		}

		line := domain.CardLine{Question: qa.Question, Answer: qa.Answer}
		wc := util.CountWords(line.Text())
		if totalWords+wc <= budget {
			card.Lines = append(card.Lines, line)
			totalWords += wc
			continue
		}

		remaining := util.Max(0, budget-totalWords-util.CountWords(line.Label()))
		if remaining > 0 {
			card.Lines = append(card.Lines, domain.CardLine{
				Question:  qa.Question,
				Answer:    util.TruncateWords(qa.Answer, remaining, constants.RenderConfig.Ellipsis),
				Truncated: true,
			})
		}
		card.WasTrimmed = true
		break
	}

	return card
}

// Renderer renders whole collections with a fixed budget.
type Renderer struct {
	budget            int
	parallelThreshold int
	trimNotice        string
}

// NewRenderer creates a Renderer. Collections with at least parallelThreshold
// profiles are rendered concurrently; zero disables that.
func NewRenderer(budget, parallelThreshold int) *Renderer {
	if budget <= 0 {
		budget = constants.RenderConfig.DefaultWordBudget
	}
	return &Renderer{
		budget:            budget,
		parallelThreshold: parallelThreshold,
		trimNotice:        fmt.Sprintf(constants.RenderConfig.TrimNoticeFormat, budget),
	}
}

func (r *Renderer) Budget() int {
	return r.budget
}

// Render renders one card and attaches the trim notice when it was trimmed.
func (r *Renderer) Render(profile domain.Profile) domain.RenderedCard {
	card := RenderCard(profile, r.budget)
	if card.WasTrimmed {
		card.TrimNotice = r.trimNotice
	}
	return card
}

// RenderAll renders profiles in order.
func (r *Renderer) RenderAll(profiles []domain.Profile) []domain.RenderedCard {
	if r.parallelThreshold > 0 && len(profiles) >= r.parallelThreshold {
		return iter.Map(profiles, func(p *domain.Profile) domain.RenderedCard {
			return r.Render(*p)
		})
	}

	cards := make([]domain.RenderedCard, 0, len(profiles))
	for _, profile := range profiles {
		cards = append(cards, r.Render(profile))
	}
	return cards
}
