package cmd

import (
	"fmt"
	"strings"

	"github.com/boazmichaely/JobHuntAI/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(titleStyle.Render("Configuration"))
		fmt.Printf("%s %s\n", labelStyle.Render("Config file:"), valueStyle.Render(config.GetConfigPath()))
		fmt.Println()
		fmt.Printf("%s %s\n", labelStyle.Render("AI Provider:"), valueStyle.Render(config.AppConfig.AIProvider))
		fmt.Printf("%s %s\n", labelStyle.Render("Model:"), valueStyle.Render(config.AppConfig.DefaultModel))
		fmt.Printf("%s %s\n", labelStyle.Render("Ollama URL:"), valueStyle.Render(config.AppConfig.OllamaURL))
		fmt.Printf("%s %s\n", labelStyle.Render("LM Studio URL:"), valueStyle.Render(config.AppConfig.LMStudioURL))
		fmt.Printf("%s %s\n", labelStyle.Render("OpenAI Key:"), valueStyle.Render(maskKey(config.AppConfig.OpenAIKey)))
		fmt.Printf("%s %s\n", labelStyle.Render("Anthropic Key:"), valueStyle.Render(maskKey(config.AppConfig.AnthropicKey)))
		if config.AppConfig.SyncFile != "" {
			fmt.Println()
			fmt.Printf("%s %s\n", labelStyle.Render("Sync file:"), valueStyle.Render(config.AppConfig.SyncFile))
			fmt.Printf("%s %v\n", labelStyle.Render("Live sync:"), config.AppConfig.SyncLive)
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a configuration value",
	Example: `  jobhuntai config set --key ai_provider --value openai
  jobhuntai config set --key openai_key --value sk-...`,
	Run: func(cmd *cobra.Command, args []string) {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			fmt.Println("Both --key and --value are required")
			return
		}

		validKeys := []string{"openai_key", "anthropic_key", "ai_provider", "default_model", "ollama_url", "lmstudio_url"}
		valid := false
		for _, k := range validKeys {
			if key == k {
				valid = true
				break
			}
		}
		if !valid {
			fmt.Printf("Invalid key. Valid keys: %s\n", strings.Join(validKeys, ", "))
			return
		}

		if err := config.Set(key, value); err != nil {
			fatalf("Error saving config: %v", err)
		}
		fmt.Printf("✓ Set %s\n", key)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Get(args[0]))
	},
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().String("key", "", "Configuration key")
	configSetCmd.Flags().String("value", "", "Configuration value")
}
