package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/resolver"
)

func TestInferenceServiceDefaulter_Default(t *testing.T) {
	t.Parallel()

	res := resolver.NewResolver(resolver.Options{Environment: "staging", AWSRegion: "eu-west-1"})

	tests := map[string]struct {
		defaulter   *InferenceServiceDefaulter
		obj         runtime.Object
		wantMessage string
		validateObj func(t *testing.T, isvc *medconnectv1alpha1.InferenceService)
	}{
		"Happy Path: defaults are materialized": {
			defaulter: NewInferenceServiceDefaulter(res),
			obj: &medconnectv1alpha1.InferenceService{
				ObjectMeta: metav1.ObjectMeta{Name: "ml-inference-service", Namespace: "medconnect"},
			},
			validateObj: func(t *testing.T, isvc *medconnectv1alpha1.InferenceService) {
				want := res.Resolve(&medconnectv1alpha1.InferenceService{
					ObjectMeta: metav1.ObjectMeta{Name: "ml-inference-service", Namespace: "medconnect"},
				})
				if diff := cmp.Diff(want.Spec, isvc.Spec); diff != "" {
					t.Errorf("Spec mismatch (-want +got):\n%s", diff)
				}
				if isvc.Spec.Environment.Environment != "staging" {
					t.Errorf("environment = %q, want staging", isvc.Spec.Environment.Environment)
				}
				if isvc.Annotations != nil {
					t.Errorf("annotations should stay nil without a span, got %v", isvc.Annotations)
				}
			},
		},
		"Happy Path: user values are kept": {
			defaulter: NewInferenceServiceDefaulter(res),
			obj: &medconnectv1alpha1.InferenceService{
				ObjectMeta: metav1.ObjectMeta{Name: "ml", Namespace: "medconnect"},
				Spec: medconnectv1alpha1.InferenceServiceSpec{
					Image:       "registry.example:5000/ml-inference:v3",
					ServiceType: corev1.ServiceTypeLoadBalancer,
				},
			},
			validateObj: func(t *testing.T, isvc *medconnectv1alpha1.InferenceService) {
				if isvc.Spec.Image != "registry.example:5000/ml-inference:v3" {
					t.Errorf("image = %q", isvc.Spec.Image)
				}
				if isvc.Spec.ServiceType != corev1.ServiceTypeLoadBalancer {
					t.Errorf("service type = %q", isvc.Spec.ServiceType)
				}
			},
		},
		"Error: nil resolver": {
			defaulter:   &InferenceServiceDefaulter{},
			obj:         &medconnectv1alpha1.InferenceService{},
			wantMessage: "resolver is nil",
		},
		"Error: wrong type": {
			defaulter:   NewInferenceServiceDefaulter(res),
			obj:         &corev1.Pod{},
			wantMessage: "expected InferenceService",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.defaulter.Default(t.Context(), tc.obj)
			if tc.wantMessage != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantMessage) {
					t.Fatalf("Default() error = %v, want message containing %q", err, tc.wantMessage)
				}
				return
			}
			if err != nil {
				t.Fatalf("Default() unexpected error: %v", err)
			}
			if tc.validateObj != nil {
				tc.validateObj(t, tc.obj.(*medconnectv1alpha1.InferenceService))
			}
		})
	}
}

func TestInferenceServiceDefaulter_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(t.Context(), "admission")
	defer span.End()

	isvc := &medconnectv1alpha1.InferenceService{
		ObjectMeta: metav1.ObjectMeta{Name: "ml", Namespace: "medconnect"},
	}
	if err := NewInferenceServiceDefaulter(resolver.NewResolver(resolver.Options{})).Default(ctx, isvc); err != nil {
		t.Fatalf("Default() unexpected error: %v", err)
	}

	tp0 := isvc.Annotations["medconnect.io/traceparent"]
	if tp0 == "" {
		t.Fatalf("traceparent annotation missing: %v", isvc.Annotations)
	}
	if !strings.Contains(tp0, trace.SpanContextFromContext(ctx).TraceID().String()) {
		t.Errorf("traceparent %q does not carry trace %s", tp0, trace.SpanContextFromContext(ctx).TraceID())
	}
	if isvc.Annotations["medconnect.io/traceparent-ts"] == "" {
		t.Error("traceparent timestamp annotation missing")
	}
}
