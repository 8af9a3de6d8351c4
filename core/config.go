package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		RollbarToken string

		API     APIConfig
		Session SessionConfig
		Log     LogConfig
		Server  ServerConfig
	}

	// APIConfig describes how the client reaches the classroom API.
	APIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	SessionConfig struct {
		Path string // bbolt file holding the token & user
	}

	LogConfig struct {
		Level  string
		Format string // console | json
	}

	// ServerConfig only applies to the development server.
	ServerConfig struct {
		Address            string
		SecretKey          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}
)

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Classwork")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("apiBaseURL", "http://localhost:5000")
	conf.SetDefault("apiTimeout", 10*time.Second)
	conf.SetDefault("sessionPath", defaultSessionPath())
	conf.SetDefault("logLevel", "info")
	conf.SetDefault("logFormat", "console")
	conf.SetDefault("serverAddress", ":5000")
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("shutdownTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		RollbarToken: conf.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: strings.TrimRight(conf.GetString("apiBaseURL"), "/"),
			Timeout: conf.GetDuration("apiTimeout"),
		},
		Session: SessionConfig{
			Path: conf.GetString("sessionPath"),
		},
		Log: LogConfig{
			Level:  conf.GetString("logLevel"),
			Format: conf.GetString("logFormat"),
		},
		Server: ServerConfig{
			Address:            conf.GetString("serverAddress"),
			SecretKey:          conf.GetString("secretKey"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    conf.GetDuration("shutdownTimeout"),
		},
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "classwork", "session.db")
}
