package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ftnt-tools/forticare-register/forticare"
)

// Env is the configuration read from the environment.
type Env struct {
	User           string `envconfig:"FORTICLOUD_API_USER"`
	Password       string `envconfig:"FORTICLOUD_API_PASSWORD"`
	LegacyPassword string `envconfig:"FORTICARE_API_PASSWORD"`
	Home           string `envconfig:"HOME"`

	AuthURL         string        `envconfig:"FORTICLOUD_AUTH_URL"`
	RegistrationURL string        `envconfig:"FORTICARE_REGISTRATION_URL"`
	HTTPTimeout     time.Duration `envconfig:"FORTICARE_HTTP_TIMEOUT" default:"60s"`

	NoColor string `envconfig:"NO_COLOR"`
}

// loadEnv reads Env from the process environment.
func loadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return &env, nil
}

func (e *Env) credentials() forticare.Credentials {
	return forticare.Credentials{
		Username: e.User,
		Password: firstSet(e.Password, e.LegacyPassword),
	}
}

// resolveCredentials applies dotfile > environment > command line.
// An unreadable dotfile is reported and otherwise ignored.
func resolveCredentials(logger *slog.Logger, opts *Options, env *Env) forticare.Credentials {
	var dot forticare.Credentials
	if env.Home != "" {
		path := forticare.DotfilePath(env.Home)
		var err error
		dot, err = forticare.LoadDotfile(path)
		if err != nil {
			logger.Warn("ignoring credential dotfile", slog.String("path", path), slog.Any("error", err))
		} else if dot.Username != "" {
			logger.Debug("using credential dotfile", slog.String("path", path))
		}
	}
	return forticare.ResolveCredentials(dot, env.credentials(), opts.credentials())
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
