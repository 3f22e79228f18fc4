package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"trainhub/modules/scheduling/entity"
)

type fakePhraser struct {
	reason      string
	hint        string
	err         error
	reasonCalls int
}

func (f *fakePhraser) PhraseReason(ctx context.Context, facts ReasonFacts) (string, error) {
	f.reasonCalls++
	return f.reason, f.err
}

func (f *fakePhraser) PhraseResolutionHint(ctx context.Context, report entity.ConflictReport) (string, error) {
	return f.hint, f.err
}

func TestReasonTemplate(t *testing.T) {
	e := NewExplainer(nil)
	slot := entity.NewCandidateSlot(at(6, 10, 0), 60)

	tests := []struct {
		name  string
		facts ReasonFacts
		want  string
	}{
		{
			name:  "no participants",
			facts: ReasonFacts{Slot: slot, NoParticipants: true},
			want:  "No participants supplied; defaulting to the next business day at 10:00.",
		},
		{
			name:  "no information",
			facts: ReasonFacts{Slot: slot, NoInformation: true},
			want:  "No calendar information available for any participant; defaulting to the next business day at 10:00.",
		},
		{
			name: "no compliant slot",
			facts: ReasonFacts{
				Slot: slot, NoCompliantSlot: true, Degraded: true,
				AvailableCount: 1, TotalCount: 3,
			},
			want: "No slot fits within working hours for a 60-minute meeting; returning a best-effort time where 1/3 participants can attend.",
		},
		{
			name: "degraded",
			facts: ReasonFacts{
				Slot: slot, Degraded: true,
				RequiredAvailableCount: 1, RequiredTotalCount: 2,
				AvailableCount: 2, TotalCount: 4,
			},
			want: "Selected as the best available option: 1 of 2 required participants are free and 2/4 total participants can attend.",
		},
		{
			name: "fully available",
			facts: ReasonFacts{
				Slot:               slot,
				RequiredTotalCount: 2, AvailableCount: 3, TotalCount: 3,
			},
			want: "Selected because all 2 required participants are free and 3/3 total participants can attend.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ReasonTemplate(tt.facts))
		})
	}
}

func TestReasonUsesPhraser(t *testing.T) {
	p := &fakePhraser{reason: "Everyone can make it, so this time works best."}
	e := NewExplainer(p)

	got := e.Reason(context.Background(), ReasonFacts{RequiredTotalCount: 1, AvailableCount: 1, TotalCount: 1})

	assert.Equal(t, p.reason, got)
	assert.Equal(t, 1, p.reasonCalls)
}

func TestReasonDegradesOnPhraserFailure(t *testing.T) {
	facts := ReasonFacts{RequiredTotalCount: 2, AvailableCount: 3, TotalCount: 3}

	t.Run("error", func(t *testing.T) {
		e := NewExplainer(&fakePhraser{err: errors.New("upstream 500")})
		assert.Equal(t, e.ReasonTemplate(facts), e.Reason(context.Background(), facts))
	})

	t.Run("empty output", func(t *testing.T) {
		e := NewExplainer(&fakePhraser{reason: ""})
		assert.Equal(t, e.ReasonTemplate(facts), e.Reason(context.Background(), facts))
	})
}

func TestHintSkipsPhraserWhenNoConflicts(t *testing.T) {
	p := &fakePhraser{hint: "should never appear"}
	e := NewExplainer(p)

	got := e.Hint(context.Background(), entity.ConflictReport{})

	assert.Empty(t, got)
}

func TestHintDegradesOnPhraserFailure(t *testing.T) {
	e := NewExplainer(&fakePhraser{err: errors.New("timeout")})
	report := entity.ConflictReport{ConflictingParticipants: []entity.ParticipantConflict{
		{Participant: entity.Participant{ID: 1, RequiredAttendance: true}},
	}}

	got := e.Hint(context.Background(), report)

	assert.Contains(t, got, "rescheduling is recommended")
}
