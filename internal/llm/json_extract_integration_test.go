package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise extraction over the response shapes the decision
// roles actually receive: critic verdicts and strategy cards wrapped in
// varying amounts of model chatter.

func TestExtractJSON_CriticVerdictWithMarkdown(t *testing.T) {
	response := `Based on the debtor's latest message, here is my assessment:

` + "```json" + `
{
  "decision": "ESCALATE_TO_META",
  "decision_reason": "third consecutive evasion, strategy exhausted",
  "reason_codes": ["evasion_pattern"],
  "memory_write": {"no_response_streak": 3}
}
` + "```" + `

The current gentle approach is no longer productive.`

	doc, err := ExtractJSON(response)
	require.NoError(t, err)

	parsed, err := ExtractJSONAs[map[string]any](doc)
	require.NoError(t, err)
	assert.Equal(t, "ESCALATE_TO_META", parsed["decision"])

	write, ok := parsed["memory_write"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), write["no_response_streak"])
}

func TestExtractJSON_StrategyCardUnfenced(t *testing.T) {
	response := `Here is the new card: {
  "strategy_id": "meta_firm_push",
  "stage": "Stage3",
  "today_kpi": ["secure partial payment today"],
  "pressure_level": "firm",
  "allowed_actions": ["demand_commitment_today"],
  "guardrails": ["consequences stay generic"],
  "escalation_actions_allowed": {"named_escalation": false},
  "params": {"pressure_tactics": ["urgency"]}
} — apply it from the next utterance.`

	doc, err := ExtractJSON(response)
	require.NoError(t, err)

	card, err := ExtractJSONAs[map[string]any](doc)
	require.NoError(t, err)
	assert.Equal(t, "meta_firm_push", card["strategy_id"])
	assert.Equal(t, "Stage3", card["stage"])
}

func TestExtractJSONAs_TypedCriticShape(t *testing.T) {
	type verdict struct {
		Decision    string         `json:"decision"`
		MemoryWrite map[string]any `json:"memory_write"`
	}

	response := "```\n" + `{"decision": "CONTINUE", "memory_write": {"reason_detail": "salary on the 5th"}}` + "\n```"

	v, err := ExtractJSONAs[verdict](response)
	require.NoError(t, err)
	assert.Equal(t, "CONTINUE", v.Decision)
	assert.Equal(t, "salary on the 5th", v.MemoryWrite["reason_detail"])
}

func TestExtractJSON_NestedBracesInsideStrings(t *testing.T) {
	response := `{"decision": "CONTINUE", "decision_reason": "debtor said \"I'll pay {soon}\" verbatim"}`

	doc, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, response, doc)
}

func TestExtractJSON_NoJSONAnywhere(t *testing.T) {
	_, err := ExtractJSON("The debtor hung up. I recommend trying again tomorrow.")
	assert.Error(t, err)
}
