package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Port               string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	// OSSConfig configures the Alibaba OSS bucket backing the attachment store.
	OSSConfig struct {
		Endpoint        string
		Bucket          string
		AccessKeyID     string
		AccessKeySecret string
		URLExpiry       time.Duration
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string // DEV (local; default), TEST, QA, PROD
		AppName          string
		SecretKey        []byte
		WorkDir          string
		Build            string
		DefaultFromEmail string
		// NotifyEmail, when set, receives a notice whenever staff publishes
		// a new assignment.
		NotifyEmail  string
		SendgridKey  string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		OSS      OSSConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the app configuration from the environment.
// A config/.env.<env> file is loaded first if it exists.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("secretKey", "2a)e5y&@7e$-dmw1pk#ttzu(o&4&26%8=!p*i%-1x+8_w(occg")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("notifyEmail", "")
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", "8000")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("shutdownTimeout", 20*time.Second)
	conf.SetDefault("dbEngine", "postgres")
	conf.SetDefault("dbName", "darasa")
	conf.SetDefault("dbUser", "darasa")
	conf.SetDefault("dbPassword", "")
	conf.SetDefault("dbAdminUser", "")
	conf.SetDefault("dbAdminPassword", "")
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", "5432")
	conf.SetDefault("dbDisableTLS", true)
	conf.SetDefault("ossEndpoint", "")
	conf.SetDefault("ossBucket", "")
	conf.SetDefault("ossAccessKeyId", "")
	conf.SetDefault("ossAccessKeySecret", "")
	conf.SetDefault("ossUrlExpiry", 24*time.Hour)
	conf.SetDefault("sendgridKey", "")
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	testMode := false
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         testMode,
		Env:              env,
		AppName:          conf.GetString("appName"),
		SecretKey:        []byte(conf.GetString("secretKey")),
		WorkDir:          wd,
		Build:            conf.GetString("build"),
		DefaultFromEmail: conf.GetString("defaultFromEmail"),
		NotifyEmail:      conf.GetString("notifyEmail"),
		SendgridKey:      conf.GetString("sendgridKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			Port:               conf.GetString("serverPort"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    conf.GetDuration("shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("dbEngine"),
			Name:          conf.GetString("dbName"),
			User:          conf.GetString("dbUser"),
			Password:      conf.GetString("dbPassword"),
			AdminUser:     conf.GetString("dbAdminUser"),
			AdminPassword: conf.GetString("dbAdminPassword"),
			Host:          conf.GetString("dbHost"),
			Port:          conf.GetString("dbPort"),
			DisableTLS:    conf.GetBool("dbDisableTLS"),
		},
		OSS: OSSConfig{
			Endpoint:        conf.GetString("ossEndpoint"),
			Bucket:          conf.GetString("ossBucket"),
			AccessKeyID:     conf.GetString("ossAccessKeyId"),
			AccessKeySecret: conf.GetString("ossAccessKeySecret"),
			URLExpiry:       conf.GetDuration("ossUrlExpiry"),
		},
	}
}
