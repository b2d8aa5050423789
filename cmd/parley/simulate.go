package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/parley-ai/parley/internal/session"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Replay a scripted negotiation scenario",
	Long: `Replay a scripted negotiation scenario through the full pipeline.

A scenario file holds one debtor profile, optionally a prior-conversation
transcript to import, and the scripted debtor utterances:

  profile:
    customer_id: cust-001
    debt_amount: 8000
    dpd: 12
    broken_promises: 1
  history: |
    debtor: I lost my job last month.
    agent: Understood, let us find a plan.
  turns:
    - "I can't pay anything this month."
    - "Stop calling me."

With --output json the final session state is printed as JSON instead
of a transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

var simulateProvider string

func init() {
	simulateCmd.Flags().StringVar(&simulateProvider, "provider", "", "Provider to use (default: config default_provider)")
}

// scenarioFile is the on-disk shape of a simulation scenario.
type scenarioFile struct {
	Profile session.Profile `yaml:"profile"`
	History string          `yaml:"history"`
	Turns   []string        `yaml:"turns"`
}

func loadScenario(path string) (*scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var sc scenarioFile
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	if err := sc.Profile.Validate(); err != nil {
		return nil, err
	}
	if len(sc.Turns) == 0 {
		return nil, fmt.Errorf("scenario has no turns")
	}
	return &sc, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0])
	if err != nil {
		return err
	}

	p, err := buildPipeline(loadedConfig, simulateProvider)
	if err != nil {
		return err
	}

	s := session.New(sc.Profile)
	if err := p.store.Put(s); err != nil {
		return err
	}

	ctx := cmd.Context()

	if sc.History != "" {
		if err := p.summarizer.Import(ctx, s, sc.History); err != nil {
			return fmt.Errorf("history import failed: %w", err)
		}
		if !globalFlags.IsQuiet() && globalFlags.GetOutputFormat() == FormatText {
			cmd.Println(stageStyle.Render(fmt.Sprintf(
				"History imported: starting at %s (bp=%d)", s.Stage, s.BrokenPromises)))
		}
	}

	for i, turn := range sc.Turns {
		updated, err := p.orch.Turn(ctx, s.CustomerID, turn)
		if err != nil {
			return fmt.Errorf("turn %d failed: %w", i+1, err)
		}
		s = updated

		if globalFlags.GetOutputFormat() == FormatText {
			cmd.Println(userPromptStyle.Render(s.CustomerID+"> ") + turn)
			printTurn(cmd, s)
		}
	}

	if globalFlags.GetOutputFormat() == FormatJSON {
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
	}

	return nil
}
