/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"os"

	corev1 "k8s.io/api/core/v1"
)

// TelemetryDisabled is the endpoint value that suppresses all OTEL variables.
const TelemetryDisabled = "disabled"

// BuildOTELEnvVars converts a TelemetryConfig into environment variables for
// the inference container. Empty fields fall back to the operator's own
// environment, so pods inherit the operator's collector unless overridden.
// A nil result means telemetry is off.
func BuildOTELEnvVars(cfg *TelemetryConfig) []corev1.EnvVar {
	var endpoint, proto, traces, sampler string
	if cfg != nil {
		endpoint = cfg.OTLPEndpoint
		proto = cfg.OTLPProtocol
		traces = cfg.TracesExporter
		sampler = cfg.TracesSampler
	}

	endpoint = valueOrEnv(endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" || endpoint == TelemetryDisabled {
		return nil
	}

	vars := []corev1.EnvVar{{Name: "OTEL_EXPORTER_OTLP_ENDPOINT", Value: endpoint}}
	for _, kv := range [][2]string{
		{"OTEL_EXPORTER_OTLP_PROTOCOL", proto},
		{"OTEL_TRACES_EXPORTER", traces},
		{"OTEL_TRACES_SAMPLER", sampler},
	} {
		if v := valueOrEnv(kv[1], kv[0]); v != "" {
			vars = append(vars, corev1.EnvVar{Name: kv[0], Value: v})
		}
	}
	return vars
}

func valueOrEnv(v, envName string) string {
	if v != "" {
		return v
	}
	return os.Getenv(envName)
}
