package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/manifest"
	"github.com/medconnect/inference-operator/pkg/monitoring"
	"github.com/medconnect/inference-operator/pkg/resolver"
	"github.com/medconnect/inference-operator/pkg/resource-handler/controller/inferenceservice"
)

// +kubebuilder:webhook:path=/validate-medconnect-io-v1alpha1-inferenceservice,mutating=false,failurePolicy=fail,sideEffects=None,groups=medconnect.io,resources=inferenceservices,verbs=create;update,versions=v1alpha1,name=vinferenceservice.medconnect.io,admissionReviewVersions=v1

// InferenceServiceValidator validates Create and Update events for InferenceServices.
type InferenceServiceValidator struct {
	Resolver *resolver.Resolver
}

var _ webhook.CustomValidator = &InferenceServiceValidator{}

// NewInferenceServiceValidator creates a new validator for InferenceServices.
func NewInferenceServiceValidator(r *resolver.Resolver) *InferenceServiceValidator {
	return &InferenceServiceValidator{Resolver: r}
}

func (v *InferenceServiceValidator) ValidateCreate(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	return v.timed("create", obj)
}

func (v *InferenceServiceValidator) ValidateUpdate(
	ctx context.Context,
	oldObj, newObj runtime.Object,
) (admission.Warnings, error) {
	// Finalizer removal on a terminating object must never be blocked.
	if isvc, ok := newObj.(*medconnectv1alpha1.InferenceService); ok && isvc.DeletionTimestamp != nil {
		return nil, nil
	}
	return v.timed("update", newObj)
}

func (v *InferenceServiceValidator) ValidateDelete(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	return nil, nil
}

func (v *InferenceServiceValidator) timed(
	operation string,
	obj runtime.Object,
) (admission.Warnings, error) {
	start := time.Now()
	warnings, err := v.validate(obj)
	monitoring.RecordWebhookRequest(operation, "InferenceService", err, time.Since(start))
	return warnings, err
}

func (v *InferenceServiceValidator) validate(obj runtime.Object) (admission.Warnings, error) {
	isvc, ok := obj.(*medconnectv1alpha1.InferenceService)
	if !ok {
		return nil, fmt.Errorf("expected InferenceService, got %T", obj)
	}

	res := v.Resolver
	if res == nil {
		res = resolver.NewResolver(resolver.Options{})
	}
	resolved := res.Resolve(isvc)

	errs := resolver.ValidateSpec(resolved)
	bundle, err := inferenceservice.BuildBundle(resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to render InferenceService: %w", err)
	}
	errs = append(errs, manifest.Validate(bundle)...)
	if len(errs) > 0 {
		return nil, apierrors.NewInvalid(
			medconnectv1alpha1.GroupVersion.WithKind("InferenceService").GroupKind(),
			isvc.Name,
			errs,
		)
	}

	return warningsFor(resolved), nil
}

// warningsFor flags an image that is not pinned to a version.
func warningsFor(isvc *medconnectv1alpha1.InferenceService) admission.Warnings {
	var warnings admission.Warnings
	if image := isvc.Spec.Image; strings.HasSuffix(image, ":latest") || !strings.Contains(imageName(image), ":") {
		warnings = append(warnings, fmt.Sprintf("spec.image %q is not pinned to a version", image))
	}
	return warnings
}

// imageName strips the registry host, whose port would otherwise look like a tag.
func imageName(image string) string {
	if i := strings.LastIndex(image, "/"); i >= 0 {
		return image[i+1:]
	}
	return image
}
