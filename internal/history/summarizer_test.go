package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/parley/internal/llm/providers"
	"github.com/parley-ai/parley/internal/session"
	"github.com/parley-ai/parley/internal/stage"
)

const summaryJSON = `{
	"summary": "Two prior contacts; debtor promised payment twice and missed both.",
	"broken_promises": 2,
	"reason_category": "unemployment",
	"ability_score": "partial",
	"reason_detail": "lost factory job in June"
}`

func TestSummarize(t *testing.T) {
	mock := providers.NewMockProvider([]string{summaryJSON})
	s := NewSummarizer(mock, "test-model")

	summary, err := s.Summarize(context.Background(), "agent: hello\ndebtor: I'll pay friday\n...")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.BrokenPromises)
	assert.Equal(t, "unemployment", summary.ReasonCategory)
	assert.Equal(t, "partial", summary.AbilityScore)

	calls := mock.GetCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0.0, calls[0].Request.Temperature)
}

func TestSummarize_FencedOutput(t *testing.T) {
	mock := providers.NewMockProvider([]string{"Here is the analysis:\n```json\n" + summaryJSON + "\n```"})
	s := NewSummarizer(mock, "test-model")

	summary, err := s.Summarize(context.Background(), "transcript")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.BrokenPromises)
}

func TestSummarize_EmptyTranscript(t *testing.T) {
	mock := providers.NewMockProvider(nil)
	s := NewSummarizer(mock, "test-model")

	summary, err := s.Summarize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, summary)
	assert.Empty(t, mock.GetCalls(), "empty transcript must not call the provider")
}

func TestSummarize_ProviderFailureReturnsZeroSummary(t *testing.T) {
	mock := providers.NewMockProvider(nil)
	mock.SetFailure(errors.New("connection refused"))
	s := NewSummarizer(mock, "test-model")

	summary, err := s.Summarize(context.Background(), "transcript")
	require.Error(t, err)
	assert.Equal(t, &Summary{}, summary)
}

func TestSummarize_UnparseableOutput(t *testing.T) {
	mock := providers.NewMockProvider([]string{"the debtor seems unlikely to pay"})
	s := NewSummarizer(mock, "test-model")

	summary, err := s.Summarize(context.Background(), "transcript")
	require.Error(t, err)
	assert.Equal(t, &Summary{}, summary)
}

func TestImport_MergesThroughMemoryPolicies(t *testing.T) {
	mock := providers.NewMockProvider([]string{summaryJSON})
	s := NewSummarizer(mock, "test-model")

	sess := session.New(session.Profile{CustomerID: "c1", DPD: 5})
	sess.ReasonDetail = "earlier note"

	require.NoError(t, s.Import(context.Background(), sess, "transcript"))

	assert.Equal(t, 2, sess.BrokenPromises, "counter overwrites")
	assert.Equal(t, "unemployment", sess.ReasonCategory)
	assert.Equal(t, "earlier note | lost factory job in June", sess.ReasonDetail,
		"detail accumulates through the merge policy")
	assert.NotEmpty(t, sess.HistorySummary)
	assert.Len(t, sess.HistoryEvents, 1)
	assert.Equal(t, stage.Stage4, sess.Stage, "imported counters move the stage before the first turn")
}

func TestImport_FailureLeavesSessionUntouched(t *testing.T) {
	mock := providers.NewMockProvider(nil)
	mock.SetFailure(errors.New("boom"))
	s := NewSummarizer(mock, "test-model")

	sess := session.New(session.Profile{CustomerID: "c1", DPD: 5, BrokenPromises: 1})

	err := s.Import(context.Background(), sess, "transcript")
	require.Error(t, err)
	assert.Equal(t, 1, sess.BrokenPromises)
	assert.Empty(t, sess.HistorySummary)
}
