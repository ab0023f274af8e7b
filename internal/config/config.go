package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// DefaultTokenSecret is the compiled-in fallback signing secret. Running with it in
// production is a deployment misconfiguration; Load logs a warning when it is in use.
const DefaultTokenSecret = "insecure-dev-secret-change-me"

type Application struct {
	Host     string   `koanf:"host"`
	Frontend Frontend `koanf:"frontend"`
	Auth     Auth     `koanf:"auth"`
	Database Database `koanf:"db"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Auth struct {
	// Secret signs session tokens. Rotating it invalidates all outstanding tokens.
	Secret string `koanf:"secret"`
	// TokenLifetimeSeconds is the session token validity window. Default: 7 days.
	TokenLifetimeSeconds int `koanf:"tokenlifetime"`
	// BcryptCost tunes the password hash work factor.
	BcryptCost int `koanf:"bcryptcost"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Auth: Auth{
			Secret:               DefaultTokenSecret,
			TokenLifetimeSeconds: 604800,
			BcryptCost:           12,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "centsible",
			Pass:   "",
			Name:   "centsible",
			Schema: "centsible",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CENTSIBLE_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CENTSIBLE_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if app.Auth.Secret == DefaultTokenSecret {
		log.Warn("auth.secret is the insecure built-in default; all issued tokens are forgeable")
	}

	return app, nil
}
