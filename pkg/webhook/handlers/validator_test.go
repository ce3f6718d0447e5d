package handlers

import (
	"strings"
	"testing"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/resolver"
)

func validInferenceService() *medconnectv1alpha1.InferenceService {
	return &medconnectv1alpha1.InferenceService{
		ObjectMeta: metav1.ObjectMeta{Name: "ml-inference-service", Namespace: "medconnect"},
		Spec: medconnectv1alpha1.InferenceServiceSpec{
			Image: "medconnect/ml-inference:1.4.2",
			ServiceAccount: &medconnectv1alpha1.ServiceAccountSpec{
				RoleARN: "arn:aws:iam::123456789012:role/ml-inference",
			},
		},
	}
}

func TestInferenceServiceValidator(t *testing.T) {
	t.Parallel()

	validator := NewInferenceServiceValidator(resolver.NewResolver(resolver.Options{}))

	tests := map[string]struct {
		object       runtime.Object
		wantAllowed  bool
		wantMessage  string
		wantWarnings int
	}{
		"Allowed: pinned image with role": {
			object:      validInferenceService(),
			wantAllowed: true,
		},
		"Allowed with warning: unpinned image": {
			object: func() runtime.Object {
				isvc := validInferenceService()
				isvc.Spec.Image = "registry.example:5000/ml-inference"
				return isvc
			}(),
			wantAllowed:  true,
			wantWarnings: 1,
		},
		"Denied: missing role ARN": {
			object: func() runtime.Object {
				isvc := validInferenceService()
				isvc.Spec.ServiceAccount = nil
				return isvc
			}(),
			wantMessage: "eks.amazonaws.com/role-arn",
		},
		"Denied: replicas outside autoscaling bounds": {
			object: func() runtime.Object {
				isvc := validInferenceService()
				isvc.Spec.Replicas = ptr.To(int32(12))
				return isvc
			}(),
			wantMessage: "spec.replicas",
		},
		"Denied: extra env shadows contract": {
			object: func() runtime.Object {
				isvc := validInferenceService()
				isvc.Spec.ExtraEnv = []corev1.EnvVar{{Name: "ENVIRONMENT", Value: "prod"}}
				return isvc
			}(),
			wantMessage: "spec.extraEnv[0].name",
		},
		"Error: wrong type": {
			object:      &corev1.Pod{},
			wantMessage: "expected InferenceService",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for op, call := range map[string]func() ([]string, error){
				"create": func() ([]string, error) {
					return validator.ValidateCreate(t.Context(), tc.object)
				},
				"update": func() ([]string, error) {
					return validator.ValidateUpdate(t.Context(), validInferenceService(), tc.object)
				},
			} {
				warnings, err := call()
				if tc.wantAllowed {
					if err != nil {
						t.Errorf("%s: unexpected error: %v", op, err)
					}
					if len(warnings) != tc.wantWarnings {
						t.Errorf("%s: warnings = %v, want %d", op, warnings, tc.wantWarnings)
					}
					continue
				}
				if err == nil {
					t.Errorf("%s: expected error containing %q", op, tc.wantMessage)
					continue
				}
				if !strings.Contains(err.Error(), tc.wantMessage) {
					t.Errorf("%s: error = %v, want message containing %q", op, err, tc.wantMessage)
				}
			}
		})
	}
}

func TestInferenceServiceValidator_InvalidStatus(t *testing.T) {
	t.Parallel()

	isvc := validInferenceService()
	isvc.Spec.ServiceAccount = nil
	_, err := NewInferenceServiceValidator(nil).ValidateCreate(t.Context(), isvc)
	if !apierrors.IsInvalid(err) {
		t.Fatalf("ValidateCreate() error = %v, want Invalid status error", err)
	}
}

func TestInferenceServiceValidator_DeleteAlwaysAllowed(t *testing.T) {
	t.Parallel()

	isvc := validInferenceService()
	isvc.Spec.ServiceAccount = nil
	warnings, err := NewInferenceServiceValidator(nil).ValidateDelete(t.Context(), isvc)
	if err != nil || warnings != nil {
		t.Errorf("ValidateDelete() = (%v, %v), want (nil, nil)", warnings, err)
	}
}

func TestInferenceServiceValidator_UpdateWhileTerminating(t *testing.T) {
	t.Parallel()

	validator := NewInferenceServiceValidator(resolver.NewResolver(resolver.Options{}))

	oldObj := validInferenceService()
	oldObj.Spec.ServiceAccount = nil
	oldObj.Finalizers = []string{"inferenceservice.medconnect.io/finalizer"}
	oldObj.DeletionTimestamp = ptr.To(metav1.Now())

	newObj := oldObj.DeepCopy()
	newObj.Finalizers = nil

	warnings, err := validator.ValidateUpdate(t.Context(), oldObj, newObj)
	if err != nil || warnings != nil {
		t.Errorf("ValidateUpdate() = (%v, %v), want finalizer removal allowed", warnings, err)
	}

	live := oldObj.DeepCopy()
	live.DeletionTimestamp = nil
	if _, err := validator.ValidateUpdate(t.Context(), live, live.DeepCopy()); !apierrors.IsInvalid(err) {
		t.Errorf("ValidateUpdate() on live object error = %v, want Invalid", err)
	}
}
