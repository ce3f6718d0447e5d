package inferenceservice

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"go.opentelemetry.io/otel/trace"
	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/autoscaling"
	"github.com/medconnect/inference-operator/pkg/manifest"
	"github.com/medconnect/inference-operator/pkg/monitoring"
	"github.com/medconnect/inference-operator/pkg/resolver"
	"github.com/medconnect/inference-operator/pkg/util/status"
)

const (
	finalizerName = "inferenceservice.medconnect.io/finalizer"
)

// InferenceServiceReconciler reconciles an InferenceService object.
type InferenceServiceReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Resolver *resolver.Resolver
}

// +kubebuilder:rbac:groups=medconnect.io,resources=inferenceservices,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=medconnect.io,resources=inferenceservices/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=medconnect.io,resources=inferenceservices/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;serviceaccounts,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=autoscaling,resources=horizontalpodautoscalers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile handles InferenceService resource reconciliation.
func (r *InferenceServiceReconciler) Reconcile(
	ctx context.Context,
	req ctrl.Request,
) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	isvc := &medconnectv1alpha1.InferenceService{}
	if err := r.Get(ctx, req.NamespacedName, isvc); err != nil {
		if errors.IsNotFound(err) {
			logger.Info("InferenceService resource not found, ignoring")
			return ctrl.Result{}, nil
		}
		logger.Error(err, "Failed to get InferenceService")
		return ctrl.Result{}, err
	}

	if parent, stale := monitoring.ExtractTraceContext(isvc.Annotations); !stale {
		if sc := trace.SpanContextFromContext(parent); sc.IsValid() {
			ctx = trace.ContextWithRemoteSpanContext(ctx, sc)
		}
	}
	ctx, span := monitoring.StartReconcileSpan(ctx, "InferenceService.Reconcile", isvc.Name, isvc.Namespace, "InferenceService")
	defer span.End()
	ctx = monitoring.EnrichLoggerWithTrace(ctx)
	logger = log.FromContext(ctx)

	if !isvc.DeletionTimestamp.IsZero() {
		return r.handleDeletion(ctx, isvc)
	}

	if !slices.Contains(isvc.Finalizers, finalizerName) {
		isvc.Finalizers = append(isvc.Finalizers, finalizerName)
		if err := r.Update(ctx, isvc); err != nil {
			logger.Error(err, "Failed to add finalizer")
			monitoring.RecordSpanError(span, err)
			return ctrl.Result{}, err
		}
	}

	resolved := r.resolver().Resolve(isvc)
	bundle, err := BuildBundle(resolved, r.Scheme)
	if err != nil {
		logger.Error(err, "Failed to build bundle")
		monitoring.RecordSpanError(span, err)
		return ctrl.Result{}, err
	}

	if verr := validate(resolved, bundle); verr != nil {
		monitoring.RecordValidation(isvc.Namespace, false)
		logger.Info("InferenceService is invalid, nothing applied", "reason", verr.Error())
		if err := r.markInvalid(ctx, isvc, verr); err != nil {
			logger.Error(err, "Failed to update status")
			monitoring.RecordSpanError(span, err)
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}
	monitoring.RecordValidation(isvc.Namespace, true)

	if err := r.applyBundle(ctx, isvc, bundle); err != nil {
		logger.Error(err, "Failed to apply bundle")
		monitoring.RecordSpanError(span, err)
		return ctrl.Result{}, err
	}

	if err := r.updateStatus(ctx, isvc, resolved); err != nil {
		logger.Error(err, "Failed to update status")
		monitoring.RecordSpanError(span, err)
		return ctrl.Result{}, err
	}

	return ctrl.Result{}, nil
}

func (r *InferenceServiceReconciler) resolver() *resolver.Resolver {
	if r.Resolver == nil {
		return resolver.NewResolver(resolver.Options{})
	}
	return r.Resolver
}

// validate runs the spec-level and bundle-level checks and folds them into
// one error.
func validate(resolved *medconnectv1alpha1.InferenceService, bundle *manifest.Bundle) error {
	errs := resolver.ValidateSpec(resolved)
	errs = append(errs, manifest.Validate(bundle)...)
	return errs.ToAggregate()
}

// handleDeletion handles cleanup when InferenceService is being deleted.
func (r *InferenceServiceReconciler) handleDeletion(
	ctx context.Context,
	isvc *medconnectv1alpha1.InferenceService,
) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if slices.Contains(isvc.Finalizers, finalizerName) {
		// Owner references garbage-collect the generated objects.
		monitoring.DeleteInferenceService(isvc.Name, isvc.Namespace)

		isvc.Finalizers = slices.DeleteFunc(isvc.Finalizers, func(s string) bool {
			return s == finalizerName
		})
		if err := r.Update(ctx, isvc); err != nil {
			logger.Error(err, "Failed to remove finalizer")
			return ctrl.Result{}, err
		}
	}

	return ctrl.Result{}, nil
}

// applyBundle creates or updates every object of the bundle and removes the
// optional objects that are no longer declared.
func (r *InferenceServiceReconciler) applyBundle(
	ctx context.Context,
	isvc *medconnectv1alpha1.InferenceService,
	bundle *manifest.Bundle,
) error {
	ctx, span := monitoring.StartChildSpan(ctx, "ApplyBundle")
	defer span.End()

	preserveReplicas := bundle.Autoscaler != nil
	for _, obj := range bundle.Objects() {
		if err := r.apply(ctx, isvc, obj, preserveReplicas); err != nil {
			monitoring.RecordSpanError(span, err)
			return err
		}
	}

	if bundle.Ingress == nil {
		if err := r.deleteOwned(ctx, isvc, &networkingv1.Ingress{}); err != nil {
			monitoring.RecordSpanError(span, err)
			return err
		}
	}
	if bundle.Autoscaler == nil {
		if err := r.deleteOwned(ctx, isvc, &autoscalingv2.HorizontalPodAutoscaler{}); err != nil {
			monitoring.RecordSpanError(span, err)
			return err
		}
	}
	return nil
}

// apply creates desired or copies its managed fields onto the live object.
// With preserveReplicas the live Deployment keeps the replica count chosen
// by the autoscaler.
func (r *InferenceServiceReconciler) apply(
	ctx context.Context,
	isvc *medconnectv1alpha1.InferenceService,
	desired client.Object,
	preserveReplicas bool,
) error {
	kind := kindName(desired)

	existing, ok := reflect.New(reflect.TypeOf(desired).Elem()).Interface().(client.Object)
	if !ok {
		return fmt.Errorf("unexpected object type %s", kind)
	}
	err := r.Get(ctx, client.ObjectKeyFromObject(desired), existing)
	if err != nil {
		if errors.IsNotFound(err) {
			if err := r.Create(ctx, desired); err != nil {
				return fmt.Errorf("failed to create %s: %w", kind, err)
			}
			monitoring.RecordApply(kind, "create")
			r.Recorder.Eventf(isvc, "Normal", "Created", "Created %s %s", kind, desired.GetName())
			return nil
		}
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}

	existing.SetLabels(desired.GetLabels())
	existing.SetOwnerReferences(desired.GetOwnerReferences())
	if annotations := desired.GetAnnotations(); len(annotations) > 0 {
		merged := maps.Clone(existing.GetAnnotations())
		if merged == nil {
			merged = map[string]string{}
		}
		maps.Copy(merged, annotations)
		existing.SetAnnotations(merged)
	}

	switch d := desired.(type) {
	case *appsv1.Deployment:
		e := existing.(*appsv1.Deployment)
		replicas := e.Spec.Replicas
		e.Spec = d.Spec
		if preserveReplicas && replicas != nil {
			e.Spec.Replicas = replicas
		}
	case *corev1.Service:
		e := existing.(*corev1.Service)
		e.Spec.Ports = d.Spec.Ports
		e.Spec.Selector = d.Spec.Selector
		e.Spec.Type = d.Spec.Type
	case *networkingv1.Ingress:
		existing.(*networkingv1.Ingress).Spec = d.Spec
	case *autoscalingv2.HorizontalPodAutoscaler:
		existing.(*autoscalingv2.HorizontalPodAutoscaler).Spec = d.Spec
	}

	if err := r.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update %s: %w", kind, err)
	}
	monitoring.RecordApply(kind, "update")
	return nil
}

// deleteOwned deletes the object of obj's type named after isvc when isvc
// controls it.
func (r *InferenceServiceReconciler) deleteOwned(
	ctx context.Context,
	isvc *medconnectv1alpha1.InferenceService,
	obj client.Object,
) error {
	kind := kindName(obj)
	if err := r.Get(ctx, client.ObjectKey{Namespace: isvc.Namespace, Name: isvc.Name}, obj); err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}
	if !metav1.IsControlledBy(obj, isvc) {
		return nil
	}
	if err := r.Delete(ctx, obj); err != nil && !errors.IsNotFound(err) {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	monitoring.RecordApply(kind, "delete")
	r.Recorder.Eventf(isvc, "Normal", "Deleted", "Deleted %s %s", kind, obj.GetName())
	return nil
}

func kindName(obj client.Object) string {
	switch obj.(type) {
	case *corev1.ServiceAccount:
		return "ServiceAccount"
	case *appsv1.Deployment:
		return "Deployment"
	case *corev1.Service:
		return "Service"
	case *networkingv1.Ingress:
		return "Ingress"
	case *autoscalingv2.HorizontalPodAutoscaler:
		return "HorizontalPodAutoscaler"
	}
	return fmt.Sprintf("%T", obj)
}

// markInvalid records a validation failure on the status.
func (r *InferenceServiceReconciler) markInvalid(
	ctx context.Context,
	isvc *medconnectv1alpha1.InferenceService,
	verr error,
) error {
	isvc.Status.Phase = medconnectv1alpha1.PhaseInvalid
	isvc.Status.Ready = false
	isvc.Status.ObservedGeneration = isvc.Generation
	status.SetValidCondition(&isvc.Status.Conditions, isvc.Generation, verr)
	monitoring.SetInferenceServiceInfo(isvc.Name, isvc.Namespace, string(isvc.Status.Phase))
	r.Recorder.Event(isvc, "Warning", "Invalid", verr.Error())

	if err := r.Status().Update(ctx, isvc); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// updateStatus updates the InferenceService status based on observed state.
func (r *InferenceServiceReconciler) updateStatus(
	ctx context.Context,
	isvc *medconnectv1alpha1.InferenceService,
	resolved *medconnectv1alpha1.InferenceService,
) error {
	ctx, span := monitoring.StartChildSpan(ctx, "UpdateStatus")
	defer span.End()

	dp := &appsv1.Deployment{}
	err := r.Get(ctx, client.ObjectKey{Namespace: isvc.Namespace, Name: isvc.Name}, dp)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to get Deployment for status: %w", err)
	}

	desired, err := r.desiredReplicas(ctx, resolved, dp)
	if err != nil {
		return err
	}

	isvc.Status.Replicas = dp.Status.Replicas
	isvc.Status.ReadyReplicas = dp.Status.ReadyReplicas
	isvc.Status.DesiredReplicas = desired
	isvc.Status.Ready = dp.Status.Replicas > 0 && dp.Status.ReadyReplicas == dp.Status.Replicas
	isvc.Status.Phase = status.ComputePhase(dp.Status.ReadyReplicas, dp.Status.Replicas)
	isvc.Status.ObservedGeneration = isvc.Generation
	status.SetValidCondition(&isvc.Status.Conditions, isvc.Generation, nil)
	status.SetReadyCondition(&isvc.Status.Conditions, isvc.Generation, dp.Status.ReadyReplicas, dp.Status.Replicas)

	monitoring.SetInferenceServiceInfo(isvc.Name, isvc.Namespace, string(isvc.Status.Phase))
	monitoring.SetInferenceServiceReplicas(isvc.Name, isvc.Namespace, desired, dp.Status.ReadyReplicas)

	if err := r.Status().Update(ctx, isvc); err != nil {
		monitoring.RecordSpanError(span, err)
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// desiredReplicas reports the replica count the workload converges on: the
// autoscaler's own figure when it has one, otherwise the recommendation for
// its current metrics, otherwise the Deployment's spec.
func (r *InferenceServiceReconciler) desiredReplicas(
	ctx context.Context,
	resolved *medconnectv1alpha1.InferenceService,
	dp *appsv1.Deployment,
) (int32, error) {
	specReplicas := int32(1)
	if dp.Spec.Replicas != nil {
		specReplicas = *dp.Spec.Replicas
	}
	if !resolver.AutoscalingEnabled(&resolved.Spec) {
		return specReplicas, nil
	}

	hpa := &autoscalingv2.HorizontalPodAutoscaler{}
	if err := r.Get(ctx, client.ObjectKeyFromObject(dp), hpa); err != nil {
		if errors.IsNotFound(err) {
			return specReplicas, nil
		}
		return 0, fmt.Errorf("failed to get HorizontalPodAutoscaler for status: %w", err)
	}
	if hpa.Status.DesiredReplicas > 0 {
		return hpa.Status.DesiredReplicas, nil
	}

	obs := observations(hpa.Status.CurrentMetrics)
	if len(obs) == 0 {
		return specReplicas, nil
	}
	current := max(hpa.Status.CurrentReplicas, dp.Status.Replicas)
	if current == 0 {
		current = specReplicas
	}
	return autoscaling.DesiredReplicas(current, policyFor(resolved), obs).Replicas, nil
}

// observations extracts resource utilization from autoscaler metric status.
func observations(metrics []autoscalingv2.MetricStatus) autoscaling.Observations {
	obs := autoscaling.Observations{}
	for _, m := range metrics {
		if m.Type != autoscalingv2.ResourceMetricSourceType || m.Resource == nil {
			continue
		}
		util := m.Resource.Current.AverageUtilization
		if util == nil {
			continue
		}
		switch m.Resource.Name {
		case corev1.ResourceCPU:
			obs[autoscaling.CPU] = float64(*util)
		case corev1.ResourceMemory:
			obs[autoscaling.Memory] = float64(*util)
		}
	}
	return obs
}

// SetupWithManager sets up the controller with the Manager.
func (r *InferenceServiceReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&medconnectv1alpha1.InferenceService{}).
		Owns(&corev1.ServiceAccount{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&networkingv1.Ingress{}).
		Owns(&autoscalingv2.HorizontalPodAutoscaler{}).
		Complete(r)
}
