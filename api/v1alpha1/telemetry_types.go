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

// TelemetryConfig defines OpenTelemetry settings for the inference container.
// When a field is empty the operator's own OTEL_* environment variable is
// used at reconcile time. Set otlpEndpoint to "disabled" to turn telemetry
// off regardless of operator settings.
type TelemetryConfig struct {
	// OTLPEndpoint is the OTLP collector endpoint URL.
	// Maps to OTEL_EXPORTER_OTLP_ENDPOINT.
	// +optional
	OTLPEndpoint string `json:"otlpEndpoint,omitempty"`

	// OTLPProtocol is the OTLP transport protocol.
	// Maps to OTEL_EXPORTER_OTLP_PROTOCOL.
	// +optional
	// +kubebuilder:validation:Enum="http/protobuf";"grpc"
	OTLPProtocol string `json:"otlpProtocol,omitempty"`

	// TracesExporter selects the trace exporter.
	// Maps to OTEL_TRACES_EXPORTER.
	// +optional
	// +kubebuilder:validation:Enum=otlp;none;console
	TracesExporter string `json:"tracesExporter,omitempty"`

	// TracesSampler selects the sampler.
	// Maps to OTEL_TRACES_SAMPLER.
	// +optional
	TracesSampler string `json:"tracesSampler,omitempty"`
}
