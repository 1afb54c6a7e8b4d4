// Package producer decides what the next episode is about. It prefers the
// continuity teaser promised to the audience by the last published episode
// and otherwise asks the executive producer persona for a fresh topic,
// re-asking with an avoid list when the duplicate checker rejects a pick.
package producer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pawpress/internal/agent"
	"pawpress/internal/dedup"
	"pawpress/internal/episodelog"
	"pawpress/internal/logging"
	"pawpress/internal/textutil"
)

// Thinker is the slice of the agent used for topic selection.
type Thinker interface {
	Think(ctx context.Context, task string, taskContext map[string]any) (agent.Result, error)
}

// DuplicateChecker gates candidate topics against production history.
type DuplicateChecker interface {
	Check(ctx context.Context, term, text string) (dedup.Result, error)
}

// Decision is a chosen topic ready for script production.
type Decision struct {
	Term            string
	Category        string
	WhyNow          string
	NextEpisodeTerm string
	FromTeaser      bool
}

// Producer selects topics.
type Producer struct {
	thinker     Thinker
	checker     DuplicateChecker
	maxAttempts int
	logger      *slog.Logger
}

// New wires a producer. A nil checker disables duplicate gating.
func New(thinker Thinker, checker DuplicateChecker, maxAttempts int, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Producer{
		thinker:     thinker,
		checker:     checker,
		maxAttempts: maxAttempts,
		logger:      logger.With(logging.String(logging.FieldComponent, "producer")),
	}
}

// DecideNextTopic picks the next episode topic against a log snapshot.
//
// A queued teaser term from the last published episode wins outright when it
// has not already been produced; it was promised on air, so the duplicate
// checker does not apply to it. Otherwise the executive producer persona
// proposes topics until one clears the history and duplicate checks or the
// attempt limit runs out.
func (p *Producer) DecideNextTopic(ctx context.Context, doc *episodelog.Document) (Decision, error) {
	if queued := doc.QueuedNextTerm(); queued != "" && !doc.TermCovered(queued) {
		p.logger.Info("continuity teaser honored", logging.String(logging.FieldTerm, queued))
		decision, err := p.planForTerm(ctx, doc, queued)
		if err != nil {
			return Decision{}, err
		}
		decision.FromTeaser = true
		return decision, nil
	}

	var rejected []string
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		decision, err := p.propose(ctx, doc, rejected)
		if err != nil {
			return Decision{}, err
		}

		if doc.TermCovered(decision.Term) {
			p.logger.Info("topic already covered, re-asking",
				logging.String(logging.FieldTerm, decision.Term),
				logging.Int("attempt", attempt))
			rejected = append(rejected, decision.Term)
			continue
		}

		if p.checker != nil {
			result, err := p.checker.Check(ctx, decision.Term,
				textutil.JoinNonEmpty(" | ", decision.Term, decision.WhyNow))
			if err != nil {
				return Decision{}, fmt.Errorf("duplicate check: %w", err)
			}
			if result.Duplicate {
				p.logger.Info("topic too similar to history, re-asking",
					logging.String(logging.FieldTerm, decision.Term),
					logging.String("matched", result.MatchedTerm),
					logging.Float64("similarity", result.Similarity),
					logging.Int("attempt", attempt))
				rejected = append(rejected, decision.Term)
				continue
			}
		}

		return decision, nil
	}

	return Decision{}, fmt.Errorf("no fresh topic after %d attempts (rejected: %s)",
		p.maxAttempts, strings.Join(rejected, ", "))
}

func (p *Producer) propose(ctx context.Context, doc *episodelog.Document, rejected []string) (Decision, error) {
	taskContext := p.historyContext(doc)
	if len(rejected) > 0 {
		taskContext["rejected_this_run"] = rejected
	}
	result, err := p.thinker.Think(ctx,
		"Choose the next episode topic. Pick a term the channel has not covered and explain why it matters right now.",
		taskContext)
	if err != nil {
		return Decision{}, fmt.Errorf("propose topic: %w", err)
	}
	return decisionFromResult(result)
}

func (p *Producer) planForTerm(ctx context.Context, doc *episodelog.Document, term string) (Decision, error) {
	taskContext := p.historyContext(doc)
	taskContext["required_term"] = term
	result, err := p.thinker.Think(ctx,
		fmt.Sprintf("The next episode term is already decided: %q. Plan the episode for exactly this term.", term),
		taskContext)
	if err != nil {
		return Decision{}, fmt.Errorf("plan queued topic: %w", err)
	}
	decision, err := decisionFromResult(result)
	if err != nil {
		return Decision{}, err
	}
	// The teaser is a promise to the audience; the model does not get to
	// substitute a different term.
	decision.Term = term
	return decision, nil
}

const historyWindow = 10

func (p *Producer) historyContext(doc *episodelog.Document) map[string]any {
	return map[string]any{
		"terms_already_published":  doc.TermsPublished(),
		"terms_already_covered":    doc.TermsCovered(),
		"recent_categories":        doc.RecentCategories(historyWindow),
		"recent_historical_events": doc.RecentEvents(historyWindow),
	}
}

func decisionFromResult(result agent.Result) (Decision, error) {
	decision := Decision{
		Term:            result.String("term"),
		Category:        result.String("category"),
		WhyNow:          result.String("why_now"),
		NextEpisodeTerm: result.String("next_episode_term"),
	}
	if decision.Term == "" {
		return Decision{}, fmt.Errorf("agent answer missing term")
	}
	return decision, nil
}
