package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/providers"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage the Super Tools gateway configuration.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration interactively",
	Long:  `Initialize configuration by prompting for provider credentials.`,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration with credentials redacted.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(cfgMgr.GetPath())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	color.Blue("Super Tools Gateway Configuration Setup")
	color.Yellow("Leave any key blank to fall back to its environment variable.")

	reader := bufio.NewReader(os.Stdin)

	cfg := &config.Config{
		Host:   config.DefaultHost,
		Port:   config.DefaultPort,
		Routes: config.DefaultRoutes(),
	}

	for _, name := range []string{providers.ProviderOpenAI, providers.ProviderAnthropic, providers.ProviderGroq} {
		fmt.Printf("\n%s API key: ", name)

		apiKey, _ := reader.ReadString('\n')
		if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
			cfg.Providers = append(cfg.Providers, config.Provider{Name: name, APIKey: apiKey})
		}
	}

	fmt.Print("\nGateway API key (optional, for authentication): ")

	gatewayKey, _ := reader.ReadString('\n')
	cfg.APIKey = strings.TrimSpace(gatewayKey)

	if err := cfgMgr.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	color.Green("Configuration saved successfully to: %s", cfgMgr.GetPath())
	color.Cyan("You can now start the gateway with: stg start")

	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg := cfgMgr.Get()

	redacted := *cfg
	redacted.APIKey = redact(cfg.APIKey)
	redacted.Providers = make([]config.Provider, len(cfg.Providers))

	for i, p := range cfg.Providers {
		redacted.Providers[i] = config.Provider{
			Name:     p.Name,
			APIKey:   redact(p.APIKey),
			Endpoint: p.Endpoint,
		}
	}

	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))

	return nil
}

func redact(key string) string {
	if len(key) <= 8 {
		if key == "" {
			return ""
		}

		return "****"
	}

	return key[:4] + "..." + key[len(key)-4:]
}
