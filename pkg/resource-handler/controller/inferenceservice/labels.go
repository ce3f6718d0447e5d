package inferenceservice

import (
	"fmt"
	"maps"

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/resource-handler/controller/metadata"
)

// ComponentName is the component label value for inference resources.
const ComponentName = "inference"

// selectorLabels returns the immutable labels used to select the pods.
func selectorLabels(isvc *medconnectv1alpha1.InferenceService) map[string]string {
	return metadata.BuildStandardLabels(isvc.Name, ComponentName)
}

// objectLabels returns the labels put on every generated object.
func objectLabels(isvc *medconnectv1alpha1.InferenceService) map[string]string {
	labels := maps.Clone(selectorLabels(isvc))
	return metadata.AddEnvironmentLabel(labels, isvc.Spec.Environment.Environment)
}

// setOwner makes isvc the controller of obj. A nil scheme leaves obj
// unowned, which is how manifests rendered outside a cluster are built.
func setOwner(isvc *medconnectv1alpha1.InferenceService, obj client.Object, scheme *runtime.Scheme) error {
	if scheme == nil {
		return nil
	}
	if err := ctrl.SetControllerReference(isvc, obj, scheme); err != nil {
		return fmt.Errorf("failed to set controller reference: %w", err)
	}
	return nil
}
