// Package workloadenv defines the environment contract of the inference
// workload: the eight variables every inference pod receives. The same
// contract is used to render container env vars, to validate manifests and
// to check a live process environment.
package workloadenv

import (
	"fmt"
	"slices"

	"github.com/vrischmann/envconfig"
	corev1 "k8s.io/api/core/v1"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

// Contract variable names.
const (
	Environment          = "ENVIRONMENT"
	LogLevel             = "LOG_LEVEL"
	PatientTableName     = "PATIENT_TABLE_NAME"
	ObservationTableName = "OBSERVATION_TABLE_NAME"
	PredictionTableName  = "PREDICTION_TABLE_NAME"
	MLPredictionStream   = "ML_PREDICTION_STREAM"
	NotificationStream   = "NOTIFICATION_STREAM"
	AWSRegion            = "AWS_REGION"
)

// Names lists the contract variables in the order they are injected.
var Names = []string{
	Environment,
	LogLevel,
	PatientTableName,
	ObservationTableName,
	PredictionTableName,
	MLPredictionStream,
	NotificationStream,
	AWSRegion,
}

// Config is the workload environment as seen by the inference process.
type Config struct {
	Environment          string `envconfig:"ENVIRONMENT"`
	LogLevel             string `envconfig:"LOG_LEVEL"`
	PatientTableName     string `envconfig:"PATIENT_TABLE_NAME"`
	ObservationTableName string `envconfig:"OBSERVATION_TABLE_NAME"`
	PredictionTableName  string `envconfig:"PREDICTION_TABLE_NAME"`
	MLPredictionStream   string `envconfig:"ML_PREDICTION_STREAM"`
	NotificationStream   string `envconfig:"NOTIFICATION_STREAM"`
	AWSRegion            string `envconfig:"AWS_REGION"`
}

// Load reads the contract from the process environment. Every variable is
// required.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Init(cfg); err != nil {
		return nil, fmt.Errorf("failed to load workload environment: %w", err)
	}
	return cfg, nil
}

// LoadPartial reads whatever part of the contract is set, leaving the rest
// empty. Use Missing on the result to report gaps.
func LoadPartial() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.InitWithOptions(cfg, envconfig.Options{AllOptional: true}); err != nil {
		return nil, fmt.Errorf("failed to load workload environment: %w", err)
	}
	return cfg, nil
}

// FromSpec converts the API representation into a Config.
func FromSpec(env medconnectv1alpha1.WorkloadEnvironment) Config {
	return Config{
		Environment:          env.Environment,
		LogLevel:             env.LogLevel,
		PatientTableName:     env.PatientTableName,
		ObservationTableName: env.ObservationTableName,
		PredictionTableName:  env.PredictionTableName,
		MLPredictionStream:   env.MLPredictionStream,
		NotificationStream:   env.NotificationStream,
		AWSRegion:            env.AWSRegion,
	}
}

// Values returns the contract as a name to value map.
func (c Config) Values() map[string]string {
	return map[string]string{
		Environment:          c.Environment,
		LogLevel:             c.LogLevel,
		PatientTableName:     c.PatientTableName,
		ObservationTableName: c.ObservationTableName,
		PredictionTableName:  c.PredictionTableName,
		MLPredictionStream:   c.MLPredictionStream,
		NotificationStream:   c.NotificationStream,
		AWSRegion:            c.AWSRegion,
	}
}

// EnvVars renders the contract as container env vars in Names order.
func (c Config) EnvVars() []corev1.EnvVar {
	values := c.Values()
	vars := make([]corev1.EnvVar, 0, len(Names))
	for _, name := range Names {
		vars = append(vars, corev1.EnvVar{Name: name, Value: values[name]})
	}
	return vars
}

// Missing returns the contract variables that are empty, in Names order.
func (c Config) Missing() []string {
	values := c.Values()
	var missing []string
	for _, name := range Names {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// MissingFrom returns the contract variables absent from vars or declared
// with neither a value nor a valueFrom source.
func MissingFrom(vars []corev1.EnvVar) []string {
	declared := make(map[string]bool, len(vars))
	for _, v := range vars {
		if v.Value != "" || v.ValueFrom != nil {
			declared[v.Name] = true
		}
	}
	var missing []string
	for _, name := range Names {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsContractName reports whether name is one of the contract variables.
func IsContractName(name string) bool {
	return slices.Contains(Names, name)
}
