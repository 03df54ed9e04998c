package config

import (
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "LOSSBUDGET"

type Config struct {
	Address            string `envconfig:"ADDRESS" default:":8080"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	StandardsFile      string `envconfig:"STANDARDS_FILE" default:""`
	GCPProject         string `envconfig:"GCP_PROJECT" default:""`
	GCPCredentialsFile string `envconfig:"GCP_CREDENTIALS_FILE" default:""`
}

// New reads LOSSBUDGET_* variables. Flags set on the command line are
// applied on top by the caller.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
