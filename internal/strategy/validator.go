package strategy

import (
	"github.com/parley-ai/parley/internal/stage"
)

// Ensure guarantees a usable, stage-consistent strategy card. If the
// current card exists, passes validation, and was generated for st, it
// is returned unchanged. Anything else (no card, stale stage, broken
// card) yields the stage's default. Never fails: the pipeline must not
// enter a critic call with a stage/strategy mismatch.
func Ensure(current *Artifact, st stage.Stage, dpd, brokenPromises int) *Artifact {
	if current != nil && current.Validate() == nil && current.Stage == st {
		return current
	}

	return DefaultForStage(st, dpd, brokenPromises)
}
