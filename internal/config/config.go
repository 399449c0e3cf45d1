package config

import (
	"fmt"     // For error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For joining missing variable names

	"github.com/ethereum/go-ethereum/common" // For address validation
	"github.com/joho/godotenv"               // For loading .env files
)

// Default values for optional settings
const (
	defaultAppPort     = "8080"
	defaultDBPort      = "3306"
	defaultIPFSGateway = "https://ipfs.io/ipfs/"
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address, empty disables caching
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	RPCURL          string // Ethereum JSON-RPC endpoint
	ContractAddress string // Carbon credit contract address
	ContractABIPath string // Optional file overriding the embedded contract ABI
	PrivateKey      string // Hex key signing contract transactions
	OwnerAddress    string // Platform holding wallet for marketplace inventory
	IPFSGateway     string // Gateway prefix replacing ipfs://

	ReconcileAfterTransfer bool // Sync the receiving wallet after an on-chain transfer
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    getEnv("APP_PORT", defaultAppPort), // Application port
		DBUser:     os.Getenv("DB_USER"),               // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),           // Database password
		DBHost:     os.Getenv("DB_HOST"),               // Database host
		DBPort:     getEnv("DB_PORT", defaultDBPort),   // Database port
		DBName:     os.Getenv("DB_NAME"),               // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),            // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),            // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),            // Redis password
		RedisDB:    redisDB,                            // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true",     // Is production environment

		RPCURL:          os.Getenv("RPC_URL"),
		ContractAddress: os.Getenv("CONTRACT_ADDRESS"),
		ContractABIPath: os.Getenv("CONTRACT_ABI_PATH"),
		PrivateKey:      strings.TrimPrefix(os.Getenv("PRIVATE_KEY"), "0x"),
		OwnerAddress:    os.Getenv("OWNER_ADDRESS"),
		IPFSGateway:     getEnv("IPFS_GATEWAY", defaultIPFSGateway),

		ReconcileAfterTransfer: os.Getenv("RECONCILE_AFTER_TRANSFER") == "true",
	}
}

// Validate reports every required setting that is missing or malformed
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"JWT_SECRET", c.JWTSecret},
		{"DB_USER", c.DBUser},
		{"DB_HOST", c.DBHost},
		{"DB_NAME", c.DBName},
		{"RPC_URL", c.RPCURL},
		{"CONTRACT_ADDRESS", c.ContractAddress},
		{"PRIVATE_KEY", c.PrivateKey},
		{"OWNER_ADDRESS", c.OwnerAddress},
	}
	var missing []string // Names of unset variables
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("CONTRACT_ADDRESS is not a valid address: %q", c.ContractAddress)
	}
	if !common.IsHexAddress(c.OwnerAddress) {
		return fmt.Errorf("OWNER_ADDRESS is not a valid address: %q", c.OwnerAddress)
	}
	return nil
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
