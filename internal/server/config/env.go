package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/flexrent/flexrent/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddr          = "FLEXRENT_HTTP_ADDR"
	EnvGRPCAddr          = "FLEXRENT_GRPC_ADDR"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvAuthSecret        = "AUTH_SECRET"
	EnvAccessTokenTTL    = "ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL   = "REFRESH_TOKEN_TTL"
	EnvS3User            = "S3_ROOT_USER"
	EnvS3Password        = "S3_ROOT_PASSWORD"
	EnvS3Bucket          = "S3_BUCKET"
	EnvS3Region          = "S3_REGION"
	EnvS3Endpoint        = "S3_BASE_ENDPOINT"
	EnvAnalyzerURL       = "API_URL"
	EnvKYCURL            = "KYC_URL"
	EnvHTTPClientTimeout = "HTTP_CLIENT_TIMEOUT"
	EnvSeedOnStart       = "SEED_ON_START"
	EnvLogLevel          = "LOG_LEVEL"
)

// parseEnv loads a dotenv file (the -env flag, or ./.env when present) into
// the process environment and copies every set variable into config.
// Variables already present in the environment are not overwritten by the
// file. An explicitly named file that cannot be read, or a malformed value,
// panics.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, EnvHTTPAddr)
	setString(&config.EndpointAddrGRPC, EnvGRPCAddr)
	setString(&config.DatabaseDSN, EnvDatabaseURL)
	setString(&config.SecretKey, EnvAuthSecret)
	setDuration(&config.AccessTokenValidityDuration, EnvAccessTokenTTL)
	setDuration(&config.RefreshTokenValidityDuration, EnvRefreshTokenTTL)
	setString(&config.S3RootUser, EnvS3User)
	setString(&config.S3RootPassword, EnvS3Password)
	setString(&config.S3Bucket, EnvS3Bucket)
	setString(&config.S3Region, EnvS3Region)
	setString(&config.S3BaseEndpoint, EnvS3Endpoint)
	setString(&config.AnalyzerURL, EnvAnalyzerURL)
	setString(&config.KYCURL, EnvKYCURL)
	setDuration(&config.HTTPClientTimeout, EnvHTTPClientTimeout)
	setString(&config.LogLevel, EnvLogLevel)

	if v, ok := os.LookupEnv(EnvSeedOnStart); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.SeedOnStart = b
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
