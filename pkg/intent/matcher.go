// Package intent routes recognized intents to the workflow that handles
// them best.
package intent

import (
	"log/slog"

	"github.com/fluxion-ai/fluxion/pkg/models"
)

// Matcher selects workflows by their declared handled intents.
type Matcher struct {
	logger *slog.Logger
}

func NewMatcher(logger *slog.Logger) *Matcher {
	return &Matcher{logger: logger.With("module", "intent_matcher")}
}

// Match returns the enabled workflow handling the intent with the highest
// declared score. Ties keep the first declared workflow. The second return
// value reports whether any workflow handles the intent.
func (m *Matcher) Match(intentID string, workflows []*models.WorkflowMetamodel) (*models.WorkflowMetamodel, bool) {
	var (
		best      *models.WorkflowMetamodel
		bestScore float64
	)

	for _, wf := range workflows {
		if !wf.Enabled {
			continue
		}

		for _, handled := range wf.HandledIntents {
			if handled.IntentID != intentID {
				continue
			}

			if best == nil || handled.Score > bestScore {
				best = wf
				bestScore = handled.Score
			}
		}
	}

	if best == nil {
		m.logger.Debug("No workflow handles intent", "intent_id", intentID)

		return nil, false
	}

	m.logger.Debug("Matched intent to workflow",
		"intent_id", intentID, "workflow_id", best.ID, "score", bestScore)

	return best, true
}
