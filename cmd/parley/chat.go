package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/parley-ai/parley/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive negotiation session",
	Long: `Start an interactive negotiation session against one debtor profile.

The debtor profile comes from a profiles file (--profiles plus
--customer) or from the inline flags. Type as the debtor; the agent
replies through the full pipeline.

Slash commands:
  /state      - dump the session state as JSON
  /telemetry  - show the last turn's decision telemetry
  /import F   - summarize a prior-conversation transcript file into memory
  /help       - show available commands
  /quit       - exit`,
	RunE: runChat,
}

// Chat flags
var (
	chatProfilesPath string
	chatCustomerID   string
	chatProvider     string

	chatDebtAmount      float64
	chatDPD             int
	chatBrokenPromises  int
	chatPaymentRefusals int
)

func init() {
	chatCmd.Flags().StringVar(&chatProfilesPath, "profiles", "", "Path to profiles YAML (default: config profiles.path)")
	chatCmd.Flags().StringVar(&chatCustomerID, "customer", "debtor-1", "Customer ID to load or create")
	chatCmd.Flags().StringVar(&chatProvider, "provider", "", "Provider to use (default: config default_provider)")
	chatCmd.Flags().Float64Var(&chatDebtAmount, "debt", 5000, "Debt amount for an inline profile")
	chatCmd.Flags().IntVar(&chatDPD, "dpd", 0, "Days past due for an inline profile")
	chatCmd.Flags().IntVar(&chatBrokenPromises, "broken-promises", 0, "Broken promise count for an inline profile")
	chatCmd.Flags().IntVar(&chatPaymentRefusals, "payment-refusals", 0, "Payment refusal count for an inline profile")
}

// Styles for the chat transcript
var (
	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	userPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	escalationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	faintStyle = lipgloss.NewStyle().
			Faint(true)
)

func runChat(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(loadedConfig, chatProvider)
	if err != nil {
		return err
	}

	profile, err := resolveProfile(cmd)
	if err != nil {
		return err
	}

	s := session.New(profile)
	if err := p.store.Put(s); err != nil {
		return err
	}

	cmd.Println(agentStyle.Render("Parley") + faintStyle.Render(
		fmt.Sprintf("  provider=%s model=%s", p.providerName, p.model)))
	cmd.Println(stageStyle.Render(fmt.Sprintf("Customer %s starts at %s (dpd=%d bp=%d pr=%d)",
		s.CustomerID, s.Stage, s.DPD, s.BrokenPromises, s.PaymentRefusals)))
	cmd.Println(faintStyle.Render("Type as the debtor. /help for commands."))
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(userPromptStyle.Render(s.CustomerID + "> "))

		input, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				cmd.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			exit, err := handleChatCommand(cmd, p, s, input)
			if err != nil {
				cmd.PrintErrf("Error: %v\n", err)
			}
			if exit {
				return nil
			}
			continue
		}

		updated, err := p.orch.Turn(cmd.Context(), s.CustomerID, input)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}
		s = updated

		printTurn(cmd, s)
	}
}

// printTurn renders the agent reply and the turn telemetry line.
func printTurn(cmd *cobra.Command, s *session.Session) {
	reply := ""
	if n := len(s.Dialogue); n > 0 {
		reply = s.Dialogue[n-1].Text
	}
	cmd.Println(agentStyle.Render("agent> ") + reply)

	t := s.LastTelemetry
	if t == nil || globalFlags.IsQuiet() {
		cmd.Println()
		return
	}

	line := fmt.Sprintf("[%s  %s", t.CriticDecision, t.StageBefore)
	if t.StageAfter != t.StageBefore {
		line += " -> " + t.StageAfter.String()
	}
	if t.StrategyRegenerated {
		line += "  strategy regenerated"
	}
	line += "]"

	if t.CriticDecision.RequiresEscalation() {
		cmd.Println(escalationStyle.Render(line))
	} else {
		cmd.Println(faintStyle.Render(line))
	}
	cmd.Println()
}

// handleChatCommand processes slash commands. Returns true on exit.
func handleChatCommand(cmd *cobra.Command, p *pipeline, s *session.Session, input string) (bool, error) {
	parts := strings.Fields(input)
	switch strings.ToLower(parts[0]) {
	case "/quit", "/exit":
		cmd.Println("Goodbye!")
		return true, nil

	case "/help":
		cmd.Println("  /state      - dump the session state as JSON")
		cmd.Println("  /telemetry  - show the last turn's decision telemetry")
		cmd.Println("  /import F   - summarize a transcript file into memory")
		cmd.Println("  /quit       - exit")
		return false, nil

	case "/state":
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return false, err
		}
		cmd.Println(string(out))
		return false, nil

	case "/telemetry":
		if s.LastTelemetry == nil {
			cmd.Println("No turns yet.")
			return false, nil
		}
		out, err := json.MarshalIndent(s.LastTelemetry, "", "  ")
		if err != nil {
			return false, err
		}
		cmd.Println(string(out))
		return false, nil

	case "/import":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /import <transcript-file>")
		}
		data, err := os.ReadFile(parts[1])
		if err != nil {
			return false, err
		}
		if err := p.summarizer.Import(cmd.Context(), s, string(data)); err != nil {
			return false, err
		}
		cmd.Println(stageStyle.Render(fmt.Sprintf(
			"History imported: stage now %s (bp=%d)", s.Stage, s.BrokenPromises)))
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (type /help)", parts[0])
	}
}

// resolveProfile loads the profile from a file when one is configured,
// otherwise builds one from the inline flags.
func resolveProfile(cmd *cobra.Command) (session.Profile, error) {
	path := chatProfilesPath
	if path == "" {
		path = loadedConfig.Profiles.Path
	}

	if path != "" {
		profiles, err := session.LoadProfiles(path)
		if err != nil {
			return session.Profile{}, err
		}
		return session.FindProfile(profiles, chatCustomerID)
	}

	p := session.Profile{
		CustomerID:      chatCustomerID,
		DebtAmount:      chatDebtAmount,
		Currency:        "CNY",
		DPD:             chatDPD,
		BrokenPromises:  chatBrokenPromises,
		PaymentRefusals: chatPaymentRefusals,
	}
	return p, p.Validate()
}
