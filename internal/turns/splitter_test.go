package turns_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/turns"
)

func u(speaker, text string, start float64) domain.Utterance {
	return domain.Utterance{Speaker: speaker, Text: text, Start: start, End: start + 1}
}

func TestSplit_GroupsAgentSpeech(t *testing.T) {
	s := turns.NewSplitter(turns.DefaultPolicy(), nil)

	got, stats, err := s.Split([]domain.Utterance{
		u("customer", "환불하고 싶어요", 0),
		u("agent", "네 고객님", 1),
		u("Agent", "확인해 드리겠습니다", 2),
		u("CUSTOMER", "감사합니다", 3),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, "환불하고 싶어요", got[0].CustomerText)
	assert.Equal(t, "네 고객님 확인해 드리겠습니다", got[0].Agent())
	assert.InDelta(t, 0.0, *got[0].Timestamp, 1e-9)

	assert.Equal(t, 1, got[1].Index)
	assert.False(t, got[1].HasAgent())
	assert.InDelta(t, 3.0, *got[1].Timestamp, 1e-9)
	assert.Equal(t, turns.SplitStats{}, stats)
}

func TestSplit_DropsEmptyUtterances(t *testing.T) {
	s := turns.NewSplitter(turns.DefaultPolicy(), nil)

	got, stats, err := s.Split([]domain.Utterance{
		u("customer", "   ", 0),
		u("customer", "문의드려요", 1),
		u("agent", "", 2),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].HasAgent())
	assert.Equal(t, 2, stats.DroppedEmpty)
}

func TestSplit_LeadingAgentPolicy(t *testing.T) {
	input := []domain.Utterance{
		u("agent", "안녕하세요 상담사입니다", 0),
		u("customer", "요금 문의요", 1),
		u("agent", "네", 2),
	}

	t.Run("drop", func(t *testing.T) {
		s := turns.NewSplitter(turns.DefaultPolicy(), nil)
		got, stats, err := s.Split(input)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "요금 문의요", got[0].CustomerText)
		assert.Equal(t, 1, stats.DroppedLeadingAgent)
	})

	t.Run("attach", func(t *testing.T) {
		s := turns.NewSplitter(turns.Policy{LeadingAgent: turns.LeadingAgentAttach}, nil)
		got, stats, err := s.Split(input)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Empty(t, got[0].CustomerText)
		assert.Equal(t, "안녕하세요 상담사입니다", got[0].Agent())
		assert.Equal(t, 1, got[1].Index)
		assert.Zero(t, stats.DroppedLeadingAgent)
	})
}

func TestSplit_UnknownSpeakerPolicy(t *testing.T) {
	input := []domain.Utterance{
		u("customer", "여보세요", 0),
		u("SPEAKER_01", "잠시만요", 1),
	}

	tests := []struct {
		policy      string
		wantTurns   int
		wantAgent   string
		wantDropped int
	}{
		{turns.UnknownSpeakerDrop, 1, "", 1},
		{turns.UnknownSpeakerAgent, 1, "잠시만요", 0},
		{turns.UnknownSpeakerCustomer, 2, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			s := turns.NewSplitter(turns.Policy{UnknownSpeaker: tt.policy}, nil)
			got, stats, err := s.Split(input)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantTurns)
			assert.Equal(t, tt.wantAgent, got[0].Agent())
			assert.Equal(t, tt.wantDropped, stats.DroppedUnknownSpeaker)
		})
	}
}

func TestSplit_NoSegments(t *testing.T) {
	s := turns.NewSplitter(turns.DefaultPolicy(), nil)

	_, _, err := s.Split(nil)
	require.ErrorIs(t, err, turns.ErrNoSegments)

	_, stats, err := s.Split([]domain.Utterance{u("agent", "여보세요", 0)})
	require.ErrorIs(t, err, turns.ErrNoSegments)
	assert.Equal(t, 1, stats.DroppedLeadingAgent)
}

func TestNewSplitter_InvalidPolicyFallsBackToDrop(t *testing.T) {
	s := turns.NewSplitter(turns.Policy{LeadingAgent: "keep", UnknownSpeaker: "guess"}, nil)
	assert.Equal(t, turns.DefaultPolicy(), s.Policy())
}

func TestParseTagged(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.Utterance
	}{
		{
			name: "korean tags",
			text: "고객: 환불 절차가 어떻게 되나요? 상담사: 네 안내해 드리겠습니다. 고객：감사합니다",
			want: []domain.Utterance{
				{Speaker: "customer", Text: "환불 절차가 어떻게 되나요?"},
				{Speaker: "agent", Text: "네 안내해 드리겠습니다."},
				{Speaker: "customer", Text: "감사합니다"},
			},
		},
		{
			name: "english tags",
			text: "Customer: hello\nAgent: hi there",
			want: []domain.Utterance{
				{Speaker: "customer", Text: "hello"},
				{Speaker: "agent", Text: "hi there"},
			},
		},
		{
			name: "untagged splits sentences",
			text: "요금이 왜 이래요? 당장 환불해줘! 알겠어요.",
			want: []domain.Utterance{
				{Speaker: "customer", Text: "요금이 왜 이래요"},
				{Speaker: "customer", Text: "당장 환불해줘"},
				{Speaker: "customer", Text: "알겠어요"},
			},
		},
		{
			name: "empty",
			text: "  ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, turns.ParseTagged(tt.text))
		})
	}
}
