package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parley-ai/parley/internal/llm"
	"github.com/parley-ai/parley/internal/llm/providers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured LLM providers",
	RunE:  runProvidersList,
}

var providersHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of every configured provider",
	RunE:  runProvidersHealth,
}

func init() {
	providersCmd.AddCommand(providersHealthCmd)
}

func buildRegistry() (*llm.Registry, error) {
	registry := llm.NewRegistry()
	for name, pc := range loadedConfig.LLM.Providers {
		provider, err := providers.NewProvider(pc)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(name, provider); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func runProvidersList(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	def := llm.NormalizeProviderName(loadedConfig.LLM.DefaultProvider)
	for _, name := range registry.List() {
		pc := loadedConfig.LLM.Providers[name]
		marker := " "
		if name == def {
			marker = "*"
		}
		cmd.Printf("%s %-12s type=%-8s model=%s\n", marker, name, pc.Type, pc.DefaultModel)
	}
	return nil
}

func runProvidersHealth(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	var unhealthy int
	results := registry.Health(cmd.Context())
	for _, name := range registry.List() {
		if err := results[name]; err != nil {
			cmd.Printf("%-12s %s\n", name, escalationStyle.Render("unhealthy: "+err.Error()))
			unhealthy++
		} else {
			cmd.Printf("%-12s %s\n", name, agentStyle.Render("ok"))
		}
	}

	if unhealthy > 0 {
		return fmt.Errorf("%d provider(s) unhealthy", unhealthy)
	}
	return nil
}
