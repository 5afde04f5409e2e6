package chain

import (
	"os"
	"strconv"
)

// Config holds the EVM connection settings. RPCURL empty means the bridge is
// disabled and the platform runs on database state only.
type Config struct {
	RPCURL          string
	ChainID         int64
	PaymentToken    string
	AssetRegistry   string
	AssetVault      string
	OperatorKeyHex  string
	ConfirmTimeoutS int
}

// NewConfig creates a chain configuration from environment variables.
// Defaults target the Mantle Sepolia testnet chain id.
func NewConfig() *Config {
	chainID, err := strconv.ParseInt(getEnv("CHAIN_ID", "5003"), 10, 64)
	if err != nil {
		chainID = 5003
	}
	timeout, err := strconv.Atoi(getEnv("CHAIN_CONFIRM_TIMEOUT", "120"))
	if err != nil {
		timeout = 120
	}

	return &Config{
		RPCURL:          os.Getenv("CHAIN_RPC_URL"),
		ChainID:         chainID,
		PaymentToken:    os.Getenv("CHAIN_PAYMENT_TOKEN"),
		AssetRegistry:   os.Getenv("CHAIN_ASSET_REGISTRY"),
		AssetVault:      os.Getenv("CHAIN_ASSET_VAULT"),
		OperatorKeyHex:  os.Getenv("CHAIN_OPERATOR_KEY"),
		ConfirmTimeoutS: timeout,
	}
}

// Enabled reports whether enough configuration is present to talk to a chain.
func (c *Config) Enabled() bool {
	return c.RPCURL != "" && c.PaymentToken != "" && c.AssetVault != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
