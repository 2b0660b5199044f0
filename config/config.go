package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	DBDriver    string // sqlite, postgres or mysql
	DBPath      string
	DatabaseDSN string
	LogLevel    string

	JWTKey         string
	EnforceAdmin   bool
	AdminAccountID string
	CORSOrigins    string

	HederaNetwork      string
	RPCURL             string
	MirrorNodeURL      string
	ChainID            int64
	LendingPoolAddress string
	HENGNTokenAddress  string
	MasterRWATokenID   string
	OperatorKey        string

	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration

	MaxLTV               float64 // percent
	InterestRate         float64 // percent APR
	OriginationFee       float64 // percent of principal
	LoanTermMonths       int
	LiquidationThreshold float64 // health factor percent
	LiquidationSchedule  string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Serverless deployments only have /tmp writable
	defaultDBPath := "data/terracred.db"
	if os.Getenv("VERCEL") == "1" || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		defaultDBPath = "/tmp/terracred.db"
	}

	AppConfig = &Config{
		Port:        getEnv("PORT", "3001"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:      getEnv("DB_PATH", defaultDBPath),
		DatabaseDSN: getEnv("DATABASE_DSN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTKey:         getEnv("JWT_SECRET_KEY", "defaultSecret"),
		EnforceAdmin:   getEnvBool("ENFORCE_ADMIN", false),
		AdminAccountID: getEnv("ADMIN_ACCOUNT_ID", "0.0.7095129"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000,https://*.vercel.app"),

		HederaNetwork:      getEnv("HEDERA_NETWORK", "testnet"),
		RPCURL:             getEnv("HEDERA_RPC_URL", "https://testnet.hashio.io/api"),
		MirrorNodeURL:      getEnv("MIRROR_NODE_URL", "https://testnet.mirrornode.hedera.com"),
		ChainID:            int64(getEnvInt("CHAIN_ID", 296)),
		LendingPoolAddress: getEnv("LENDING_POOL_ADDRESS", ""),
		HENGNTokenAddress:  getEnv("HENGN_TOKEN_ADDRESS", ""),
		MasterRWATokenID:   getEnv("MASTER_RWA_TOKEN_ID", "0.0.7162666"),
		OperatorKey:        strings.TrimPrefix(getEnv("HEDERA_PRIVATE_KEY", ""), "0x"),

		ReceiptPollInterval: getEnvDuration("RECEIPT_POLL_INTERVAL", 2*time.Second),
		ReceiptTimeout:      getEnvDuration("RECEIPT_TIMEOUT", 60*time.Second),

		MaxLTV:               getEnvFloat("MAX_LTV", 70),
		InterestRate:         getEnvFloat("INTEREST_RATE", 5),
		OriginationFee:       getEnvFloat("ORIGINATION_FEE", 0.1),
		LoanTermMonths:       getEnvInt("LOAN_TERM_MONTHS", 12),
		LiquidationThreshold: getEnvFloat("LIQUIDATION_THRESHOLD", 120),
		LiquidationSchedule:  getEnv("LIQUIDATION_SCHEDULE", "@every 5m"),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if (AppConfig.DBDriver == "postgres" || AppConfig.DBDriver == "mysql") && AppConfig.DatabaseDSN == "" {
		log.Fatalf("DB_DRIVER=%s requires DATABASE_DSN", AppConfig.DBDriver)
	}
	if AppConfig.LendingPoolAddress == "" {
		log.Println("Warning: LENDING_POOL_ADDRESS not set. On-chain loan features are disabled.")
	}
}

// ChainEnabled reports whether a lending pool contract is configured
func (c *Config) ChainEnabled() bool {
	return c.LendingPoolAddress != ""
}

// AllowedOrigins splits CORSOrigins into trimmed entries
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
