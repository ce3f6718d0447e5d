package metadata

import "maps"

// Standard Kubernetes label keys following kubernetes.io conventions.
//
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	// LabelAppName is the standard label key for the application name.
	LabelAppName = "app.kubernetes.io/name"

	// LabelAppInstance is the standard label key for the unique instance name.
	LabelAppInstance = "app.kubernetes.io/instance"

	// LabelAppVersion is the standard label key for the application version.
	LabelAppVersion = "app.kubernetes.io/version"

	// LabelAppComponent is the standard label key for the component within the
	// application.
	LabelAppComponent = "app.kubernetes.io/component"

	// LabelAppPartOf is the standard label key for the name of a higher level
	// application this one is part of.
	LabelAppPartOf = "app.kubernetes.io/part-of"

	// LabelAppManagedBy is the standard label key for the tool managing the
	// resource.
	LabelAppManagedBy = "app.kubernetes.io/managed-by"
)

const (
	// AppNameMedConnect is the fixed application name for all MedConnect resources.
	AppNameMedConnect = "medconnect"

	// ManagedByOperator identifies the operator managing these resources.
	ManagedByOperator = "medconnect-inference-operator"
)

const (
	// LabelEnvironment identifies the deployment stage a resource belongs to.
	LabelEnvironment = "medconnect.io/environment"

	// AnnotationRoleARN binds a ServiceAccount to an external IAM role
	// (EKS IAM Roles for Service Accounts).
	AnnotationRoleARN = "eks.amazonaws.com/role-arn"
)

// BuildStandardLabels builds the standard Kubernetes labels for a MedConnect
// component. The result doubles as the pod selector, so it must only contain
// values that never change over the life of the resource.
//
// Standard labels include:
//   - app.kubernetes.io/name: "medconnect"
//   - app.kubernetes.io/instance: <resourceName>
//   - app.kubernetes.io/component: <componentName>
//   - app.kubernetes.io/part-of: "medconnect"
//   - app.kubernetes.io/managed-by: "medconnect-inference-operator"
//
// Example usage:
//
//	labels := BuildStandardLabels("ml-inference-service", "inference")
func BuildStandardLabels(resourceName, componentName string) map[string]string {
	labels := map[string]string{
		LabelAppName:      AppNameMedConnect,
		LabelAppInstance:  resourceName,
		LabelAppComponent: componentName,
		LabelAppPartOf:    AppNameMedConnect,
		LabelAppManagedBy: ManagedByOperator,
	}

	return labels
}

// AddEnvironmentLabel adds the environment label to the provided labels map.
// Empty environments are skipped.
func AddEnvironmentLabel(labels map[string]string, environment string) map[string]string {
	if environment != "" {
		labels[LabelEnvironment] = environment
	}
	return labels
}

// MergeLabels merges custom labels with standard labels.
//
// Note that standard labels take precedence over custom labels to prevent users
// from overriding critical operator-managed labels.
func MergeLabels(standardLabels, customLabels map[string]string) map[string]string {
	merged := make(map[string]string)

	// Copy custom labels first (if provided)
	maps.Copy(merged, customLabels)

	// Copy standard labels (overwriting any duplicates from custom)
	maps.Copy(merged, standardLabels)

	return merged
}
