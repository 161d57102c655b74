package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	DatabaseURL string

	SecretKey      []byte
	Algorithm      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

var supportedAlgorithms = []string{"HS256", "HS384", "HS512"}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	var errs []error
	required := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			errs = append(errs, &ConfigError{Key: key, Reason: "required"})
		}
		return v
	}

	cfg := Config{
		ServerAddr:  envDefault(getenv, "SERVER_ADDR", ":8080"),
		LogLevel:    envDefault(getenv, "LOG_LEVEL", "info"),
		DatabaseURL: required("DATABASE_URL"),
		SecretKey:   []byte(required("SECRET_KEY")),
		Algorithm:   required("ALGORITHM"),

		KafkaBrokers: CSV(getenv("KAFKA_BROKERS")),
		KafkaTopic:   envDefault(getenv, "KAFKA_TOPIC", "project_events"),

		ESURL:      getenv("ES_URL"),
		ESUser:     getenv("ES_USER"),
		ESPassword: getenv("ES_PASSWORD"),
		ESIndex:    envDefault(getenv, "ES_INDEX", "projects"),
	}

	if cfg.Algorithm != "" && !isSupported(cfg.Algorithm) {
		errs = append(errs, &ConfigError{
			Key:    "ALGORITHM",
			Reason: fmt.Sprintf("unsupported algorithm %q, want one of %s", cfg.Algorithm, strings.Join(supportedAlgorithms, ", ")),
		})
	}

	if raw := required("ACCESS_TOKEN_EXPIRE_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, &ConfigError{Key: "ACCESS_TOKEN_EXPIRE_MINUTES", Reason: "not an integer"})
		case minutes <= 0:
			errs = append(errs, &ConfigError{Key: "ACCESS_TOKEN_EXPIRE_MINUTES", Reason: "must be positive"})
		default:
			cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute
		}
	}

	if raw := strings.TrimSpace(getenv("BCRYPT_COST")); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			errs = append(errs, &ConfigError{
				Key:    "BCRYPT_COST",
				Reason: fmt.Sprintf("must be an integer in [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost),
			})
		} else {
			cfg.BcryptCost = cost
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func (c Config) SearchEnabled() bool { return c.ESURL != "" }

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func isSupported(alg string) bool {
	for _, a := range supportedAlgorithms {
		if a == alg {
			return true
		}
	}
	return false
}
