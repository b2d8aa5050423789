package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/pkg/version"
)

// loadedConfig is populated by loadConfig before any subcommand runs.
var loadedConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley - LLM-driven debt negotiation engine",
	Long: `Parley orchestrates collection conversations through a staged
negotiation pipeline: a critic judges each debtor reply, a strategist
rewrites the approach when the conversation escalates, and an executor
produces the next utterance under the current strategy card.

Run 'parley chat' for an interactive session or 'parley simulate' to
replay a scripted scenario.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig runs before every command. Missing files fall back to the
// default configuration so the mock provider works without any setup.
func loadConfig(cmd *cobra.Command, args []string) error {
	flags, err := ParseGlobalFlags(cmd)
	if err != nil {
		return err
	}

	// version, completion, and help never need configuration
	switch cmd.Name() {
	case "version", "completion", "help":
		return nil
	}

	homeDir := flags.HomeDir
	if homeDir == "" {
		homeDir = config.DefaultHomeDir()
	}

	configFile := flags.ConfigFile
	if configFile == "" {
		configFile = config.DefaultConfigPath(homeDir)
	}

	loader := config.NewLoader(config.NewValidator())
	cfg, err := loader.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	loadedConfig = cfg
	return nil
}

func init() {
	RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(completionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.String())
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for Parley.

To load completions:

Bash:

  $ source <(parley completion bash)

Zsh:

  $ parley completion zsh > "${fpath[1]}/_parley"

Fish:

  $ parley completion fish | source

PowerShell:

  PS> parley completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			_ = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			_ = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			_ = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			_ = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}
