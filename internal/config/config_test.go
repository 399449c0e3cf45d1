package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "carbon")
	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	t.Setenv("PRIVATE_KEY", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	t.Setenv("OWNER_ADDRESS", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("IPFS_GATEWAY", "")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, "3306", cfg.DBPort)
	require.Equal(t, "https://ipfs.io/ipfs/", cfg.IPFSGateway)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", cfg.PrivateKey)
	require.False(t, cfg.ReconcileAfterTransfer)
	require.Equal(t, "root:@tcp(localhost:3306)/carbon?parseTime=true", cfg.DSN())
}

func TestValidateMissing(t *testing.T) {
	setRequired(t)
	t.Setenv("RPC_URL", "")
	t.Setenv("OWNER_ADDRESS", "")

	err := LoadConfig().Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "RPC_URL")
	require.Contains(t, err.Error(), "OWNER_ADDRESS")
}

func TestValidateBadAddress(t *testing.T) {
	setRequired(t)
	t.Setenv("OWNER_ADDRESS", "not-an-address")

	err := LoadConfig().Validate()
	require.ErrorContains(t, err, "OWNER_ADDRESS")
}
