package manifest

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
)

const sampleManifest = "testdata/ml-inference-service.yaml"

func loadSample(t *testing.T) *Bundle {
	t.Helper()
	f, err := os.Open(sampleManifest)
	if err != nil {
		t.Fatalf("failed to open %s: %v", sampleManifest, err)
	}
	defer f.Close()

	b, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return b
}

func TestParse_Sample(t *testing.T) {
	t.Parallel()

	b := loadSample(t)

	got := map[string]string{}
	for _, obj := range b.Objects() {
		got[kindOf(obj)] = obj.GetName()
	}
	want := map[string]string{
		"ServiceAccount":          "ml-inference-sa",
		"Deployment":              "ml-inference-service",
		"Service":                 "ml-inference-service",
		"Ingress":                 "ml-inference-ingress",
		"HorizontalPodAutoscaler": "ml-inference-hpa",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parsed objects mismatch (-want +got):\n%s", diff)
	}
	if ns := b.Namespace(); ns != "medconnect" {
		t.Errorf("Namespace() = %q, want medconnect", ns)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantErr string
	}{
		"Unsupported Kind": {
			input:   "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: cfg\n",
			wantErr: "unsupported kind ConfigMap",
		},
		"Duplicate Kind": {
			input: "apiVersion: v1\nkind: Service\nmetadata:\n  name: a\n---\n" +
				"apiVersion: v1\nkind: Service\nmetadata:\n  name: b\n",
			wantErr: "duplicate Service",
		},
		"Unknown Group": {
			input:   "apiVersion: example.com/v1\nkind: Widget\nmetadata:\n  name: w\n",
			wantErr: "document 0",
		},
		"Malformed YAML": {
			input:   "apiVersion: v1\nkind: Service\n  metadata: [\n",
			wantErr: "document 0",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestParse_SkipsEmptyDocuments(t *testing.T) {
	t.Parallel()

	input := "---\n---\napiVersion: v1\nkind: ServiceAccount\nmetadata:\n  name: sa\n---\n"
	b, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(b.Objects()) != 1 || b.ServiceAccount == nil {
		t.Errorf("Parse() = %+v, want only a ServiceAccount", b.Objects())
	}
}

func TestRender_RoundTrip(t *testing.T) {
	t.Parallel()

	want := loadSample(t)

	var buf bytes.Buffer
	if err := Render(&buf, want); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, documentSeparator); got != 4 {
		t.Errorf("Render() wrote %d separators, want 4", got)
	}
	for _, unwanted := range []string{"status:", "creationTimestamp"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("Render() output contains %q:\n%s", unwanted, out)
		}
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse(Render()) error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FillsTypeMeta(t *testing.T) {
	t.Parallel()

	b := &Bundle{ServiceAccount: &corev1.ServiceAccount{}}
	b.ServiceAccount.Name = "sa"

	var buf bytes.Buffer
	if err := Render(&buf, b); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, want := range []string{"apiVersion: v1", "kind: ServiceAccount", "name: sa"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Render() output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestValidate_Sample(t *testing.T) {
	t.Parallel()

	if errs := Validate(loadSample(t)); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs.ToAggregate())
	}
}

// The ingress backend must land on a Service of the same manifest whose
// selector reaches the Deployment pods.
func TestSample_IngressReachesPods(t *testing.T) {
	t.Parallel()

	b := loadSample(t)
	backend := b.Ingress.Spec.Rules[0].HTTP.Paths[0].Backend.Service
	if backend.Name != "ml-inference-service" || backend.Port.Number != 80 {
		t.Fatalf("ingress backend = %s:%d, want ml-inference-service:80", backend.Name, backend.Port.Number)
	}
	if b.Service.Name != backend.Name {
		t.Errorf("Service name = %q, want %q", b.Service.Name, backend.Name)
	}
	if !labels.SelectorFromSet(b.Service.Spec.Selector).Matches(labels.Set(b.PodLabels())) {
		t.Errorf("Service selector %v does not select pod labels %v", b.Service.Spec.Selector, b.PodLabels())
	}
}

func TestSample_ReplicasWithinAutoscalerBounds(t *testing.T) {
	t.Parallel()

	b := loadSample(t)
	minReplicas := *b.Autoscaler.Spec.MinReplicas
	maxReplicas := b.Autoscaler.Spec.MaxReplicas
	replicas := *b.Deployment.Spec.Replicas

	if minReplicas != 2 || replicas != 2 || maxReplicas != 10 {
		t.Errorf("min/replicas/max = %d/%d/%d, want 2/2/10", minReplicas, replicas, maxReplicas)
	}
	if minReplicas > replicas || replicas > maxReplicas {
		t.Errorf("replicas %d outside [%d, %d]", replicas, minReplicas, maxReplicas)
	}
}

func TestSample_ZeroDowntimeRollout(t *testing.T) {
	t.Parallel()

	b := loadSample(t)
	for _, surge := range []intstr.IntOrString{
		intstr.FromInt32(0), intstr.FromInt32(1), intstr.FromInt32(5), intstr.FromString("50%"),
	} {
		d := b.Deployment.DeepCopy()
		d.Spec.Strategy.RollingUpdate.MaxSurge = &surge

		plan, err := RolloutPlan(d)
		if err != nil {
			t.Fatalf("RolloutPlan() error: %v", err)
		}
		if !plan.ZeroDowntime() {
			t.Errorf("maxSurge=%s: ExpectedUnavailable = %d, want 0", surge.String(), plan.ExpectedUnavailable)
		}
	}
}

func TestValidate_Violations(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate    func(*Bundle)
		wantField []string
	}{
		"Missing Deployment": {
			mutate:    func(b *Bundle) { b.Deployment = nil },
			wantField: []string{"deployment"},
		},
		"Missing Service": {
			mutate:    func(b *Bundle) { b.Service = nil },
			wantField: []string{"service"},
		},
		"Selector Does Not Match Template": {
			mutate: func(b *Bundle) {
				b.Deployment.Spec.Selector.MatchLabels = map[string]string{"app": "other"}
			},
			wantField: []string{"deployment.spec.selector"},
		},
		"Empty Selector": {
			mutate: func(b *Bundle) {
				b.Deployment.Spec.Selector.MatchLabels = nil
			},
			wantField: []string{"deployment.spec.selector"},
		},
		"Service Selects Nothing": {
			mutate: func(b *Bundle) {
				b.Service.Spec.Selector = map[string]string{"app": "ml-training"}
			},
			wantField: []string{"service.spec.selector"},
		},
		"Service Target Port Undeclared": {
			mutate: func(b *Bundle) {
				b.Service.Spec.Ports[0].TargetPort = intstr.FromInt32(9090)
			},
			wantField: []string{"service.spec.ports[0].targetPort"},
		},
		"Ingress Backend Unknown Service": {
			mutate: func(b *Bundle) {
				b.Ingress.Spec.Rules[0].HTTP.Paths[0].Backend.Service.Name = "ml-service"
			},
			wantField: []string{"ingress.spec.rules[0].http.paths[0].backend.service.name"},
		},
		"Ingress Backend Unexposed Port": {
			mutate: func(b *Bundle) {
				b.Ingress.Spec.Rules[0].HTTP.Paths[0].Backend.Service.Port = networkingv1.ServiceBackendPort{Number: 8080}
			},
			wantField: []string{"ingress.spec.rules[0].http.paths[0].backend.service.port"},
		},
		"Ingress Backend Port By Name": {
			mutate: func(b *Bundle) {
				b.Ingress.Spec.Rules[0].HTTP.Paths[0].Backend.Service.Port = networkingv1.ServiceBackendPort{Name: "http"}
			},
		},
		"Service Account Mismatch": {
			mutate: func(b *Bundle) {
				b.Deployment.Spec.Template.Spec.ServiceAccountName = "default"
			},
			wantField: []string{"deployment.spec.template.spec.serviceAccountName"},
		},
		"Service Account Not In Bundle": {
			mutate: func(b *Bundle) {
				b.ServiceAccount = nil
			},
			wantField: []string{"deployment.spec.template.spec.serviceAccountName"},
		},
		"Role Missing": {
			mutate: func(b *Bundle) {
				b.ServiceAccount.Annotations = nil
			},
			wantField: []string{"serviceAccount.metadata.annotations[eks.amazonaws.com/role-arn]"},
		},
		"Replicas Above Max": {
			mutate: func(b *Bundle) {
				b.Deployment.Spec.Replicas = ptr.To(int32(11))
			},
			wantField: []string{"deployment.spec.replicas"},
		},
		"Min Above Max": {
			mutate: func(b *Bundle) {
				b.Autoscaler.Spec.MinReplicas = ptr.To(int32(12))
			},
			wantField: []string{"autoscaler.spec.maxReplicas", "deployment.spec.replicas"},
		},
		"Autoscaler Targets Other Workload": {
			mutate: func(b *Bundle) {
				b.Autoscaler.Spec.ScaleTargetRef = autoscalingv2.CrossVersionObjectReference{
					APIVersion: "apps/v1", Kind: "StatefulSet", Name: "ml-inference-service",
				}
			},
			wantField: []string{"autoscaler.spec.scaleTargetRef"},
		},
		"Utilization Out Of Range": {
			mutate: func(b *Bundle) {
				b.Autoscaler.Spec.Metrics[1].Resource.Target.AverageUtilization = ptr.To(int32(0))
			},
			wantField: []string{"autoscaler.spec.metrics[1].resource.target.averageUtilization"},
		},
		"Rollout Both Zero": {
			mutate: func(b *Bundle) {
				b.Deployment.Spec.Strategy.RollingUpdate = &appsv1.RollingUpdateDeployment{
					MaxSurge:       ptr.To(intstr.FromInt32(0)),
					MaxUnavailable: ptr.To(intstr.FromInt32(0)),
				}
			},
			wantField: []string{"deployment.spec.strategy.rollingUpdate"},
		},
		"Probe Port Undeclared": {
			mutate: func(b *Bundle) {
				b.Deployment.Spec.Template.Spec.Containers[0].LivenessProbe.HTTPGet.Port = intstr.FromString("metrics")
			},
			wantField: []string{"deployment.spec.template.spec.containers[0].livenessProbe.httpGet.port"},
		},
		"Env Contract Incomplete": {
			mutate: func(b *Bundle) {
				c := &b.Deployment.Spec.Template.Spec.Containers[0]
				c.Env = c.Env[:6]
			},
			wantField: []string{
				"deployment.spec.template.spec.containers[0].env",
				"deployment.spec.template.spec.containers[0].env",
			},
		},
		"Env From Secret Counts": {
			mutate: func(b *Bundle) {
				c := &b.Deployment.Spec.Template.Spec.Containers[0]
				c.Env[0] = corev1.EnvVar{
					Name: "ENVIRONMENT",
					ValueFrom: &corev1.EnvVarSource{
						ConfigMapKeyRef: &corev1.ConfigMapKeySelector{
							LocalObjectReference: corev1.LocalObjectReference{Name: "stage"},
							Key:                  "environment",
						},
					},
				}
			},
		},
		"Namespace Mismatch": {
			mutate: func(b *Bundle) {
				b.Ingress.Namespace = "default"
			},
			wantField: []string{"ingress.metadata.namespace"},
		},
		"Optional Objects Absent": {
			mutate: func(b *Bundle) {
				b.Ingress = nil
				b.Autoscaler = nil
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			b := loadSample(t)
			tc.mutate(b)

			var got []string
			for _, err := range Validate(b) {
				got = append(got, err.Field)
			}
			if diff := cmp.Diff(tc.wantField, got); diff != "" {
				t.Errorf("Validate() fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
