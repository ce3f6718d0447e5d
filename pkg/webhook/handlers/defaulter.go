package handlers

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/monitoring"
	"github.com/medconnect/inference-operator/pkg/resolver"
)

// +kubebuilder:webhook:path=/mutate-medconnect-io-v1alpha1-inferenceservice,mutating=true,failurePolicy=fail,sideEffects=None,groups=medconnect.io,resources=inferenceservices,verbs=create;update,versions=v1alpha1,name=minferenceservice.medconnect.io,admissionReviewVersions=v1

// InferenceServiceDefaulter handles the mutation of InferenceService resources.
type InferenceServiceDefaulter struct {
	Resolver *resolver.Resolver
}

var _ webhook.CustomDefaulter = &InferenceServiceDefaulter{}

// NewInferenceServiceDefaulter creates a new defaulter handler.
func NewInferenceServiceDefaulter(r *resolver.Resolver) *InferenceServiceDefaulter {
	return &InferenceServiceDefaulter{
		Resolver: r,
	}
}

// Default implements webhook.CustomDefaulter. Besides materializing the
// defaults it stamps the current trace context onto the object so the
// reconcile that follows joins the same trace.
func (d *InferenceServiceDefaulter) Default(ctx context.Context, obj runtime.Object) (err error) {
	start := time.Now()
	defer func() {
		monitoring.RecordWebhookRequest("default", "InferenceService", err, time.Since(start))
	}()

	if d.Resolver == nil {
		return fmt.Errorf("defaulter not initialized: resolver is nil")
	}

	isvc, ok := obj.(*medconnectv1alpha1.InferenceService)
	if !ok {
		return fmt.Errorf("expected InferenceService, got %T", obj)
	}

	ctx, span := monitoring.StartChildSpan(ctx, "InferenceService.Default")
	defer span.End()

	d.Resolver.PopulateDefaults(isvc)

	if isvc.Annotations == nil {
		isvc.Annotations = map[string]string{}
	}
	monitoring.InjectTraceContext(ctx, isvc.Annotations)
	if len(isvc.Annotations) == 0 {
		isvc.Annotations = nil
	}

	log.FromContext(ctx).V(1).Info("Defaulted InferenceService", "name", isvc.Name, "namespace", isvc.Namespace)
	return nil
}
