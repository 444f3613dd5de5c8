package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseDSN    string
	Env            string
	KeyWordLength  int
	SlidingRefresh bool
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load reads configuration from the environment, after loading a local .env
// file when one exists.
func Load() Config {
	_ = godotenv.Load()
	port := getenv("APP_PORT", "8080")
	dsn := getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=chatapp port=5432 sslmode=disable TimeZone=UTC")
	env := getenv("APP_ENV", "dev")
	kwLen, _ := strconv.Atoi(getenv("KEY_WORD_LENGTH", "64"))
	if kwLen <= 0 {
		kwLen = 64
	}
	sliding, _ := strconv.ParseBool(getenv("AUTH_SLIDING_REFRESH", "false"))
	return Config{
		Port:           port,
		DatabaseDSN:    dsn,
		Env:            env,
		KeyWordLength:  kwLen,
		SlidingRefresh: sliding,
	}
}
