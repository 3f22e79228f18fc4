package service

import (
	"context"
	"fmt"

	"trainhub/core/logger"
	"trainhub/modules/scheduling/entity"
)

// ReasonFacts are the structured facts a reason string is built from.
// Ranking is decided before any phrasing happens; a phraser only re-words
// already-computed facts.
type ReasonFacts struct {
	Slot                   entity.CandidateSlot
	AvailableCount         int
	TotalCount             int
	RequiredAvailableCount int
	RequiredTotalCount     int
	Degraded               bool
	NoParticipants         bool
	NoCompliantSlot        bool
	NoInformation          bool
	Purpose                string
}

// Phraser optionally re-words explanation strings, e.g. via an external
// text-generation service. Any failure degrades to the deterministic template.
type Phraser interface {
	PhraseReason(ctx context.Context, facts ReasonFacts) (string, error)
	PhraseResolutionHint(ctx context.Context, report entity.ConflictReport) (string, error)
}

// Explainer builds human-readable reason and resolution-hint strings.
type Explainer struct {
	phraser Phraser
}

func NewExplainer(phraser Phraser) *Explainer {
	return &Explainer{phraser: phraser}
}

// Reason phrases the suggestion explanation, falling back to the template
// when the phraser is absent or fails.
func (e *Explainer) Reason(ctx context.Context, facts ReasonFacts) string {
	template := e.ReasonTemplate(facts)
	if e.phraser == nil {
		return template
	}
	phrased, err := e.phraser.PhraseReason(ctx, facts)
	if err != nil || phrased == "" {
		logger.Warn("Explainer:Reason:PhraserDegraded", "error", err)
		return template
	}
	return phrased
}

// ReasonTemplate is the deterministic explanation for a suggestion.
func (e *Explainer) ReasonTemplate(facts ReasonFacts) string {
	if facts.NoParticipants {
		return "No participants supplied; defaulting to the next business day at 10:00."
	}
	if facts.NoInformation {
		return "No calendar information available for any participant; defaulting to the next business day at 10:00."
	}
	if facts.NoCompliantSlot {
		return fmt.Sprintf(
			"No slot fits within working hours for a %d-minute meeting; returning a best-effort time where %d/%d participants can attend.",
			int(facts.Slot.End.Sub(facts.Slot.Start).Minutes()),
			facts.AvailableCount, facts.TotalCount)
	}
	if facts.Degraded {
		return fmt.Sprintf(
			"Selected as the best available option: %d of %d required participants are free and %d/%d total participants can attend.",
			facts.RequiredAvailableCount, facts.RequiredTotalCount,
			facts.AvailableCount, facts.TotalCount)
	}
	return fmt.Sprintf(
		"Selected because all %d required participants are free and %d/%d total participants can attend.",
		facts.RequiredTotalCount, facts.AvailableCount, facts.TotalCount)
}

// Hint phrases the resolution hint, falling back to the template on failure.
func (e *Explainer) Hint(ctx context.Context, report entity.ConflictReport) string {
	template := e.HintTemplate(report)
	if e.phraser == nil || template == "" {
		return template
	}
	phrased, err := e.phraser.PhraseResolutionHint(ctx, report)
	if err != nil || phrased == "" {
		logger.Warn("Explainer:Hint:PhraserDegraded", "error", err)
		return template
	}
	return phrased
}

// HintTemplate is the deterministic resolution hint. Empty when there are
// no conflicts.
func (e *Explainer) HintTemplate(report entity.ConflictReport) string {
	if !report.HasConflicts() {
		return ""
	}
	if report.HasRequiredConflict() {
		return "One or more required participants have conflicting commitments at this time; rescheduling is recommended."
	}
	return "Only optional participants have conflicts; the organizer may proceed or consider an alternative time."
}
