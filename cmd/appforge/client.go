package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/appforge/internal/api"
	"github.com/ShayCichocki/appforge/internal/config"
)

// newGenerationClient builds the Anthropic client from configuration.
// Bedrock deployments skip API key resolution and authenticate via AWS.
func newGenerationClient(cfg *config.Config) (*api.Client, error) {
	clientCfg := api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		MaxTokens:     int64(cfg.Anthropic.MaxTokens),
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}

	if config.RequiresAPIKey(cfg) {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve API key: %w (set ANTHROPIC_API_KEY or run 'appforge config anthropic.api_key <key>')", err)
		}
		clientCfg.APIKey = key
	}

	client, err := api.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}

	return client, nil
}
