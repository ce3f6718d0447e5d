package deploy

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/medconnect/inference-operator/pkg/monitoring"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := monitoring.Tracer
	monitoring.Tracer = tp.Tracer("test")
	t.Cleanup(func() {
		monitoring.Tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestDeploy_StepSpans(t *testing.T) {
	tests := map[string]struct {
		failOn     string
		lookPath   LookPathFunc
		wantStatus map[string]codes.Code
	}{
		"every step traced under the deploy span": {
			lookPath: lookPathWithout(),
			wantStatus: map[string]codes.Code{
				"Deploy":                codes.Unset,
				"install dependencies":  codes.Unset,
				"deploy infrastructure": codes.Unset,
			},
		},
		"failed step marks its span and the deploy span": {
			failOn:   "cdk",
			lookPath: lookPathWithout(),
			wantStatus: map[string]codes.Code{
				"Deploy":                codes.Error,
				"install dependencies":  codes.Unset,
				"deploy infrastructure": codes.Error,
			},
		},
		"preflight failure records no step spans": {
			lookPath: lookPathWithout("cdk"),
			wantStatus: map[string]codes.Code{
				"Deploy": codes.Error,
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sr := recordSpans(t)
			d := &Deployer{
				Config:    testConfig(),
				Commander: &recordingCommander{failOn: tc.failOn, err: exitError{code: 3}},
				LookPath:  tc.lookPath,
				Setenv:    envRecorder{}.set,
				Logger:    logr.Discard(),
			}

			err := d.Deploy(t.Context(), Options{Environment: "staging", Region: "us-west-2"})
			if tc.wantStatus["Deploy"] == codes.Error {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			spans := sr.Ended()
			got := map[string]codes.Code{}
			var root sdktrace.ReadOnlySpan
			for _, s := range spans {
				got[s.Name()] = s.Status().Code
				if s.Name() == "Deploy" {
					root = s
				}
			}
			assert.Equal(t, tc.wantStatus, got)

			require.NotNil(t, root)
			for _, s := range spans {
				if s.Name() == "Deploy" {
					continue
				}
				assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID(), "%s parent", s.Name())
				assert.Equal(t, root.SpanContext().TraceID(), s.SpanContext().TraceID(), "%s trace", s.Name())
			}
		})
	}
}
