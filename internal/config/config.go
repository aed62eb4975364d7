// Package config loads the API configuration: defaults, then an optional
// YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string   `yaml:"listen_addr"`
	RPCURL          string   `yaml:"rpc_url"`
	ContractID      string   `yaml:"contract_id"`
	WalletBridgeURL string   `yaml:"wallet_bridge_url"`
	BlobStoreURL    string   `yaml:"blob_store_url"`
	BlobStoreToken  string   `yaml:"blob_store_token"`
	BlobGatewayFmt  string   `yaml:"blob_gateway_format"`
	SessionSecret   string   `yaml:"session_secret"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// Default is the local-development configuration.
func Default() *Config {
	return &Config{
		ListenAddr:      "0.0.0.0:8080",
		RPCURL:          "https://rpc.testnet.near.org",
		ContractID:      "tasks.testnet",
		WalletBridgeURL: "http://localhost:8090",
		BlobStoreURL:    "https://api.web3.storage",
		BlobGatewayFmt:  "https://%s.ipfs.w3s.link",
		SessionSecret:   "supersecretmvp",
		CORSOrigins:     []string{"http://localhost:3000"},
	}
}

// Load builds the configuration. path may be empty; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.RPCURL, "NEAR_RPC_URL")
	setFromEnv(&cfg.ContractID, "CONTRACT_ID")
	setFromEnv(&cfg.WalletBridgeURL, "WALLET_BRIDGE_URL")
	setFromEnv(&cfg.BlobStoreURL, "BLOB_STORE_URL")
	setFromEnv(&cfg.BlobStoreToken, "BLOB_STORE_TOKEN")
	setFromEnv(&cfg.SessionSecret, "SESSION_SECRET")
	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = "0.0.0.0:" + port
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
