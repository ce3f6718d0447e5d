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
	"testing"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
)

func clearOTELEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_PROTOCOL",
		"OTEL_TRACES_EXPORTER",
		"OTEL_TRACES_SAMPLER",
	} {
		t.Setenv(env, "")
	}
}

func TestBuildOTELEnvVars(t *testing.T) {
	clearOTELEnv(t)

	tests := map[string]struct {
		cfg  *TelemetryConfig
		want []corev1.EnvVar
	}{
		"nil config returns nil": {
			cfg:  nil,
			want: nil,
		},
		"empty config returns nil": {
			cfg:  &TelemetryConfig{},
			want: nil,
		},
		"disabled endpoint returns nil": {
			cfg:  &TelemetryConfig{OTLPEndpoint: TelemetryDisabled},
			want: nil,
		},
		"endpoint only": {
			cfg: &TelemetryConfig{OTLPEndpoint: "http://collector:4318"},
			want: []corev1.EnvVar{
				{Name: "OTEL_EXPORTER_OTLP_ENDPOINT", Value: "http://collector:4318"},
			},
		},
		"all fields populated": {
			cfg: &TelemetryConfig{
				OTLPEndpoint:   "http://collector:4318",
				OTLPProtocol:   "grpc",
				TracesExporter: "otlp",
				TracesSampler:  "always_on",
			},
			want: []corev1.EnvVar{
				{Name: "OTEL_EXPORTER_OTLP_ENDPOINT", Value: "http://collector:4318"},
				{Name: "OTEL_EXPORTER_OTLP_PROTOCOL", Value: "grpc"},
				{Name: "OTEL_TRACES_EXPORTER", Value: "otlp"},
				{Name: "OTEL_TRACES_SAMPLER", Value: "always_on"},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := BuildOTELEnvVars(tc.cfg)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("BuildOTELEnvVars() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildOTELEnvVars_OperatorFallback(t *testing.T) {
	clearOTELEnv(t)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://operator-collector:4318")
	t.Setenv("OTEL_TRACES_EXPORTER", "otlp")

	got := BuildOTELEnvVars(&TelemetryConfig{OTLPProtocol: "grpc"})
	want := []corev1.EnvVar{
		{Name: "OTEL_EXPORTER_OTLP_ENDPOINT", Value: "http://operator-collector:4318"},
		{Name: "OTEL_EXPORTER_OTLP_PROTOCOL", Value: "grpc"},
		{Name: "OTEL_TRACES_EXPORTER", Value: "otlp"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildOTELEnvVars() mismatch (-want +got):\n%s", diff)
	}

	if got := BuildOTELEnvVars(&TelemetryConfig{OTLPEndpoint: TelemetryDisabled}); got != nil {
		t.Errorf("disabled endpoint should override operator env, got %v", got)
	}
}
