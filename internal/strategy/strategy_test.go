package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/stage"
)

func TestDefaultForStage_CoversAllStages(t *testing.T) {
	for st := stage.Stage0; st <= stage.Stage4; st++ {
		card := DefaultForStage(st, 0, 0)
		require.NotNil(t, card, "stage %s", st)
		assert.Equal(t, st, card.Stage)
		assert.NoError(t, card.Validate())
	}
}

func TestDefaultForStage_PressureNonDecreasing(t *testing.T) {
	rank := map[decision.Tone]int{
		decision.TonePolite:     0,
		decision.TonePoliteFirm: 1,
		decision.ToneFirm:       2,
	}

	prev := -1
	for st := stage.Stage0; st <= stage.Stage4; st++ {
		card := DefaultForStage(st, 10, 2)
		level, ok := rank[card.PressureLevel]
		require.True(t, ok, "unknown pressure level %s on %s", card.PressureLevel, st)
		assert.GreaterOrEqual(t, level, prev, "pressure dropped at %s", st)
		prev = level
	}
}

func TestDefaultForStage_NamedEscalationGate(t *testing.T) {
	tests := []struct {
		name           string
		dpd            int
		brokenPromises int
		want           bool
	}{
		{"gate open", 4, 1, true},
		{"dpd too low", 3, 1, false},
		{"no broken promises", 10, 0, false},
		{"both short", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := DefaultForStage(stage.Stage4, tt.dpd, tt.brokenPromises)
			assert.Equal(t, tt.want, card.EscalationActionsAllowed["named_escalation"])
		})
	}
}

func TestDefaultForStage_LowerStagesNeverNameEscalation(t *testing.T) {
	// Even with counters that satisfy the SOP gate, only Stage4 may
	// unlock named escalation.
	for st := stage.Stage0; st <= stage.Stage3; st++ {
		card := DefaultForStage(st, 30, 5)
		assert.False(t, card.EscalationActionsAllowed["named_escalation"], "stage %s", st)
	}
}

func TestEnsure_NoOpWhenStageMatches(t *testing.T) {
	existing := DefaultForStage(stage.Stage2, 1, 0)
	existing.StrategyID = "meta_generated_42"

	got := Ensure(existing, stage.Stage2, 1, 0)
	assert.Same(t, existing, got, "matching card must be returned unchanged")
}

func TestEnsure_ReplacesOnStageMismatch(t *testing.T) {
	stale := DefaultForStage(stage.Stage1, 0, 0)

	got := Ensure(stale, stage.Stage3, 5, 1)
	require.NotNil(t, got)
	assert.NotSame(t, stale, got)
	assert.Equal(t, stage.Stage3, got.Stage)
}

func TestEnsure_SynthesizesWhenMissing(t *testing.T) {
	got := Ensure(nil, stage.Stage4, 7, 2)
	require.NotNil(t, got)
	assert.Equal(t, stage.Stage4, got.Stage)
	assert.True(t, got.EscalationActionsAllowed["named_escalation"])
}

func TestEnsure_ReplacesBrokenCard(t *testing.T) {
	broken := &Artifact{Stage: stage.Stage2} // no id, no KPIs

	got := Ensure(broken, stage.Stage2, 1, 0)
	require.NotNil(t, got)
	assert.NotSame(t, broken, got)
	assert.NoError(t, got.Validate())
}

func TestParseArtifact(t *testing.T) {
	jsonStr := `{
		"strategy_id": "meta_7",
		"stage": "Stage3",
		"today_kpi": ["secure partial payment"],
		"pressure_level": "firm",
		"allowed_actions": ["demand_commitment_today"],
		"guardrails": ["stay within the compliance script"],
		"escalation_actions_allowed": {"named_escalation": false},
		"params": {"current_stage_pressure_level": "firm"}
	}`

	card, err := ParseArtifact(jsonStr)
	require.NoError(t, err)
	assert.Equal(t, "meta_7", card.StrategyID)
	assert.Equal(t, stage.Stage3, card.Stage)
	assert.Equal(t, decision.ToneFirm, card.PressureLevel)
}

func TestParseArtifact_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not json", "use more pressure"},
		{"missing id", `{"stage":"Stage1","today_kpi":["x"],"pressure_level":"polite","allowed_actions":["y"]}`},
		{"bad stage", `{"strategy_id":"s","stage":"Stage9","today_kpi":["x"],"pressure_level":"polite","allowed_actions":["y"]}`},
		{"bad pressure", `{"strategy_id":"s","stage":"Stage1","today_kpi":["x"],"pressure_level":"screaming","allowed_actions":["y"]}`},
		{"no actions", `{"strategy_id":"s","stage":"Stage1","today_kpi":["x"],"pressure_level":"polite","allowed_actions":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArtifact(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestArtifact_RoundTrip(t *testing.T) {
	original := DefaultForStage(stage.Stage4, 5, 1)

	jsonStr, err := original.ToJSON()
	require.NoError(t, err)

	parsed, err := ParseArtifact(jsonStr)
	require.NoError(t, err)
	assert.Equal(t, original.StrategyID, parsed.StrategyID)
	assert.Equal(t, original.Stage, parsed.Stage)
	assert.Equal(t, original.EscalationActionsAllowed, parsed.EscalationActionsAllowed)
}
