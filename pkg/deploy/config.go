package deploy

import (
	"fmt"

	"github.com/vrischmann/envconfig"
)

// DefaultTools are the executables a deployment needs, in check order.
var DefaultTools = []string{"aws", "python3", "pip3", "cdk"}

// Config locates the deployment inputs. Every field can be set from the
// environment.
type Config struct {
	// RequirementsFile is passed to pip3 install -r.
	RequirementsFile string `envconfig:"MEDCONNECT_REQUIREMENTS_FILE,default=requirements.txt"`
	// InfraDir is the directory holding the CDK app.
	InfraDir string `envconfig:"MEDCONNECT_INFRA_DIR,default=infrastructure"`
	// Tools overrides DefaultTools. The list is comma separated.
	Tools []string `envconfig:"MEDCONNECT_REQUIRED_TOOLS,optional"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Init(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load deploy config: %w", err)
	}
	return cfg, nil
}

// RequiredTools returns Tools, or DefaultTools when none are configured.
func (c Config) RequiredTools() []string {
	if len(c.Tools) == 0 {
		return DefaultTools
	}
	return c.Tools
}
