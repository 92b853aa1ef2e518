package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"athlonos/internal/config"
)

var configForce bool

// configCmd groups config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the Athlon OS config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE:  configInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (secrets masked)",
	RunE:  configShow,
}

func configInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgPath); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}
	if err := config.DefaultConfig().Save(cfgPath); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", cfgPath)
	return nil
}

func configShow(cmd *cobra.Command, args []string) error {
	cfg := *appCfg
	cfg.Agent.APIKey = mask(cfg.Agent.APIKey)
	cfg.Agent.CloudAPIKey = mask(cfg.Agent.CloudAPIKey)

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 4:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
