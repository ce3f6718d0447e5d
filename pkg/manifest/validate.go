package manifest

import (
	"fmt"
	"slices"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/medconnect/inference-operator/pkg/autoscaling"
	"github.com/medconnect/inference-operator/pkg/resource-handler/controller/metadata"
	"github.com/medconnect/inference-operator/pkg/workloadenv"
)

// Validate checks the bundle's objects against each other and returns every
// violation found. An empty list means the bundle is consistent.
func Validate(b *Bundle) field.ErrorList {
	var errs field.ErrorList

	if b.Deployment == nil {
		errs = append(errs, field.Required(field.NewPath("deployment"), "bundle must declare a Deployment"))
	}
	if b.Service == nil {
		errs = append(errs, field.Required(field.NewPath("service"), "bundle must declare a Service"))
	}
	if b.Deployment == nil {
		return errs
	}

	errs = append(errs, validateNamespaces(b)...)

	ports := containerPorts(b.Deployment)
	errs = append(errs, validateDeployment(b.Deployment, ports)...)
	errs = append(errs, validateServiceAccount(b)...)
	if b.Service != nil {
		errs = append(errs, validateService(b.Service, b.PodLabels(), ports)...)
	}
	if b.Ingress != nil && b.Service != nil {
		errs = append(errs, validateIngress(b.Ingress, b.Service)...)
	}
	if b.Autoscaler != nil {
		errs = append(errs, validateAutoscaler(b.Autoscaler, b.Deployment)...)
	}

	return errs
}

// RolloutPlan resolves the Deployment's rolling update bounds.
func RolloutPlan(d *appsv1.Deployment) (autoscaling.RolloutPlan, error) {
	surge, unavailable := rollingUpdateBounds(d)
	return autoscaling.PlanRollout(deploymentReplicas(d), surge, unavailable)
}

func validateNamespaces(b *Bundle) field.ErrorList {
	var errs field.ErrorList
	ns := b.Deployment.Namespace
	check := func(path string, obj metav1.Object) {
		if obj.GetNamespace() != ns {
			errs = append(errs, field.Invalid(
				field.NewPath(path, "metadata", "namespace"), obj.GetNamespace(),
				fmt.Sprintf("must match the Deployment namespace %q", ns),
			))
		}
	}
	if b.ServiceAccount != nil {
		check("serviceAccount", b.ServiceAccount)
	}
	if b.Service != nil {
		check("service", b.Service)
	}
	if b.Ingress != nil {
		check("ingress", b.Ingress)
	}
	if b.Autoscaler != nil {
		check("autoscaler", b.Autoscaler)
	}
	return errs
}

func validateDeployment(d *appsv1.Deployment, ports map[int32]string) field.ErrorList {
	var errs field.ErrorList
	specPath := field.NewPath("deployment", "spec")

	errs = append(errs, validateSelector(d.Spec.Selector, d.Spec.Template.Labels, specPath.Child("selector"))...)

	if d.Spec.Replicas != nil && *d.Spec.Replicas < 0 {
		errs = append(errs, field.Invalid(specPath.Child("replicas"), *d.Spec.Replicas, "must not be negative"))
	}

	if d.Spec.Strategy.Type != appsv1.RecreateDeploymentStrategyType {
		surge, unavailable := rollingUpdateBounds(d)
		rollingPath := specPath.Child("strategy", "rollingUpdate")
		if zero, err := autoscaling.BothZero(deploymentReplicas(d), surge, unavailable); err != nil {
			errs = append(errs, field.Invalid(rollingPath, d.Spec.Strategy.RollingUpdate, err.Error()))
		} else if zero {
			errs = append(errs, field.Invalid(rollingPath, d.Spec.Strategy.RollingUpdate,
				"maxSurge and maxUnavailable must not both be zero"))
		}
	}

	podPath := specPath.Child("template", "spec")
	containers := d.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		errs = append(errs, field.Required(podPath.Child("containers"), "at least one container is required"))
	}
	for i, c := range containers {
		cPath := podPath.Child("containers").Index(i)
		errs = append(errs, validateProbe(c.LivenessProbe, ports, cPath.Child("livenessProbe"))...)
		errs = append(errs, validateProbe(c.ReadinessProbe, ports, cPath.Child("readinessProbe"))...)
		for _, name := range workloadenv.MissingFrom(c.Env) {
			errs = append(errs, field.Required(cPath.Child("env"), fmt.Sprintf("missing workload variable %s", name)))
		}
	}

	return errs
}

func validateSelector(sel *metav1.LabelSelector, podLabels map[string]string, path *field.Path) field.ErrorList {
	if sel == nil || (len(sel.MatchLabels) == 0 && len(sel.MatchExpressions) == 0) {
		return field.ErrorList{field.Required(path, "selector must not be empty")}
	}
	selector, err := metav1.LabelSelectorAsSelector(sel)
	if err != nil {
		return field.ErrorList{field.Invalid(path, sel, err.Error())}
	}
	if !selector.Matches(labels.Set(podLabels)) {
		return field.ErrorList{field.Invalid(path, sel, "selector does not match template labels")}
	}
	return nil
}

func validateProbe(probe *corev1.Probe, ports map[int32]string, path *field.Path) field.ErrorList {
	if probe == nil || probe.HTTPGet == nil {
		return nil
	}
	var errs field.ErrorList
	if !strings.HasPrefix(probe.HTTPGet.Path, "/") {
		errs = append(errs, field.Invalid(path.Child("httpGet", "path"), probe.HTTPGet.Path, "must start with '/'"))
	}
	if !portDeclared(probe.HTTPGet.Port, ports) {
		errs = append(errs, field.Invalid(path.Child("httpGet", "port"), probe.HTTPGet.Port.String(),
			"must reference a declared container port"))
	}
	return errs
}

func validateServiceAccount(b *Bundle) field.ErrorList {
	var errs field.ErrorList
	name := b.Deployment.Spec.Template.Spec.ServiceAccountName
	namePath := field.NewPath("deployment", "spec", "template", "spec", "serviceAccountName")

	if b.ServiceAccount == nil {
		if name != "" && name != "default" {
			errs = append(errs, field.NotFound(namePath, name))
		}
		return errs
	}

	if name != b.ServiceAccount.Name {
		errs = append(errs, field.Invalid(namePath, name,
			fmt.Sprintf("must reference the bundle ServiceAccount %q", b.ServiceAccount.Name)))
	}
	if b.ServiceAccount.Annotations[metadata.AnnotationRoleARN] == "" {
		errs = append(errs, field.Required(
			field.NewPath("serviceAccount", "metadata", "annotations").Key(metadata.AnnotationRoleARN),
			"identity binding requires a role"))
	}
	return errs
}

func validateService(svc *corev1.Service, podLabels map[string]string, ports map[int32]string) field.ErrorList {
	var errs field.ErrorList
	specPath := field.NewPath("service", "spec")

	if len(svc.Spec.Selector) == 0 {
		errs = append(errs, field.Required(specPath.Child("selector"), "selector must not be empty"))
	} else if !labels.SelectorFromSet(svc.Spec.Selector).Matches(labels.Set(podLabels)) {
		errs = append(errs, field.Invalid(specPath.Child("selector"), svc.Spec.Selector,
			"selector does not select the Deployment pods"))
	}

	if len(svc.Spec.Ports) == 0 {
		errs = append(errs, field.Required(specPath.Child("ports"), "at least one port is required"))
	}
	for i, p := range svc.Spec.Ports {
		target := p.TargetPort
		if target.Type == intstr.Int && target.IntVal == 0 {
			target = intstr.FromInt32(p.Port)
		}
		if !portDeclared(target, ports) {
			errs = append(errs, field.Invalid(specPath.Child("ports").Index(i).Child("targetPort"), target.String(),
				"must reference a declared container port"))
		}
	}
	return errs
}

func validateIngress(ing *networkingv1.Ingress, svc *corev1.Service) field.ErrorList {
	var errs field.ErrorList
	specPath := field.NewPath("ingress", "spec")

	if ing.Spec.DefaultBackend != nil {
		errs = append(errs, validateBackend(*ing.Spec.DefaultBackend, svc, specPath.Child("defaultBackend"))...)
	}

	var paths int
	for i, rule := range ing.Spec.Rules {
		if rule.HTTP == nil {
			continue
		}
		for j, p := range rule.HTTP.Paths {
			paths++
			pPath := specPath.Child("rules").Index(i).Child("http", "paths").Index(j)
			if !strings.HasPrefix(p.Path, "/") {
				errs = append(errs, field.Invalid(pPath.Child("path"), p.Path, "must start with '/'"))
			}
			errs = append(errs, validateBackend(p.Backend, svc, pPath.Child("backend"))...)
		}
	}
	if paths == 0 && ing.Spec.DefaultBackend == nil {
		errs = append(errs, field.Required(specPath.Child("rules"), "ingress must route at least one path"))
	}
	return errs
}

func validateBackend(backend networkingv1.IngressBackend, svc *corev1.Service, path *field.Path) field.ErrorList {
	if backend.Service == nil {
		return field.ErrorList{field.Required(path.Child("service"), "backend must reference the bundle Service")}
	}

	var errs field.ErrorList
	if backend.Service.Name != svc.Name {
		errs = append(errs, field.NotFound(path.Child("service", "name"), backend.Service.Name))
	}

	port := backend.Service.Port
	exposed := slices.ContainsFunc(svc.Spec.Ports, func(sp corev1.ServicePort) bool {
		if port.Name != "" {
			return sp.Name == port.Name
		}
		return sp.Port == port.Number
	})
	if !exposed {
		value := port.Name
		if value == "" {
			value = fmt.Sprint(port.Number)
		}
		errs = append(errs, field.Invalid(path.Child("service", "port"), value,
			fmt.Sprintf("Service %q does not expose this port", svc.Name)))
	}
	return errs
}

func validateAutoscaler(hpa *autoscalingv2.HorizontalPodAutoscaler, d *appsv1.Deployment) field.ErrorList {
	var errs field.ErrorList
	specPath := field.NewPath("autoscaler", "spec")

	ref := hpa.Spec.ScaleTargetRef
	if ref.Kind != "Deployment" || ref.APIVersion != appsv1.SchemeGroupVersion.String() || ref.Name != d.Name {
		errs = append(errs, field.Invalid(specPath.Child("scaleTargetRef"),
			fmt.Sprintf("%s/%s %s", ref.APIVersion, ref.Kind, ref.Name),
			fmt.Sprintf("must target Deployment %q", d.Name)))
	}

	minReplicas := int32(1)
	if hpa.Spec.MinReplicas != nil {
		minReplicas = *hpa.Spec.MinReplicas
	}
	if minReplicas < 1 {
		errs = append(errs, field.Invalid(specPath.Child("minReplicas"), minReplicas, "must be at least 1"))
	}
	if minReplicas > hpa.Spec.MaxReplicas {
		errs = append(errs, field.Invalid(specPath.Child("maxReplicas"), hpa.Spec.MaxReplicas,
			"must not be less than minReplicas"))
	}

	replicas := deploymentReplicas(d)
	if replicas < minReplicas || replicas > hpa.Spec.MaxReplicas {
		errs = append(errs, field.Invalid(field.NewPath("deployment", "spec", "replicas"), replicas,
			fmt.Sprintf("must lie within the autoscaler bounds [%d, %d]", minReplicas, hpa.Spec.MaxReplicas)))
	}

	for i, m := range hpa.Spec.Metrics {
		if m.Type != autoscalingv2.ResourceMetricSourceType || m.Resource == nil {
			continue
		}
		target := m.Resource.Target
		if target.Type != autoscalingv2.UtilizationMetricType {
			continue
		}
		if target.AverageUtilization == nil || *target.AverageUtilization < 1 || *target.AverageUtilization > 100 {
			errs = append(errs, field.Invalid(
				specPath.Child("metrics").Index(i).Child("resource", "target", "averageUtilization"),
				target.AverageUtilization, "must be between 1 and 100"))
		}
	}
	return errs
}

// containerPorts maps every declared container port number to its name.
func containerPorts(d *appsv1.Deployment) map[int32]string {
	ports := map[int32]string{}
	for _, c := range d.Spec.Template.Spec.Containers {
		for _, p := range c.Ports {
			ports[p.ContainerPort] = p.Name
		}
	}
	return ports
}

func portDeclared(port intstr.IntOrString, ports map[int32]string) bool {
	if port.Type == intstr.String {
		for _, name := range ports {
			if name != "" && name == port.StrVal {
				return true
			}
		}
		return false
	}
	_, ok := ports[port.IntVal]
	return ok
}

func deploymentReplicas(d *appsv1.Deployment) int32 {
	if d.Spec.Replicas == nil {
		return 1
	}
	return *d.Spec.Replicas
}

func rollingUpdateBounds(d *appsv1.Deployment) (surge, unavailable *intstr.IntOrString) {
	if d.Spec.Strategy.Type == appsv1.RecreateDeploymentStrategyType {
		all := intstr.FromInt32(deploymentReplicas(d))
		zero := intstr.FromInt32(0)
		return &zero, &all
	}
	// Unset bounds default to 25% each on the API server.
	quarter := intstr.FromString("25%")
	surge, unavailable = &quarter, &quarter
	if ru := d.Spec.Strategy.RollingUpdate; ru != nil {
		if ru.MaxSurge != nil {
			surge = ru.MaxSurge
		}
		if ru.MaxUnavailable != nil {
			unavailable = ru.MaxUnavailable
		}
	}
	return surge, unavailable
}
