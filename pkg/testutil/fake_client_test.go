package testutil

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func newBaseClient(objs ...client.Object) client.Client {
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	return fake.NewClientBuilder().WithScheme(scheme).WithObjects(objs...).WithStatusSubresource(&corev1.Service{}).Build()
}

func TestFakeClientWithFailures_Get(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure": {
			config: nil,
		},
		"fail on name": {
			config:  &FailureConfig{OnGet: FailOnKeyName("svc", ErrInjected)},
			wantErr: true,
		},
		"other name": {
			config: &FailureConfig{OnGet: FailOnKeyName("other", ErrInjected)},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			svc := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "svc", Namespace: "default"}}
			c := NewFakeClientWithFailures(newBaseClient(svc), tc.config)

			err := c.Get(t.Context(), client.ObjectKeyFromObject(svc), &corev1.Service{})
			if (err != nil) != tc.wantErr {
				t.Errorf("Get() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_Writes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config *FailureConfig
		op     func(ctx context.Context, c client.Client, obj client.Object) error
	}{
		"create by type": {
			config: &FailureConfig{OnCreate: FailOnType[*corev1.ServiceAccount](ErrInjected)},
			op: func(ctx context.Context, c client.Client, _ client.Object) error {
				return c.Create(ctx, &corev1.ServiceAccount{
					ObjectMeta: metav1.ObjectMeta{Name: "sa", Namespace: "default"},
				})
			},
		},
		"update by name": {
			config: &FailureConfig{OnUpdate: FailOnObjectName("svc", ErrInjected)},
			op: func(ctx context.Context, c client.Client, obj client.Object) error {
				return c.Update(ctx, obj)
			},
		},
		"delete after calls": {
			config: &FailureConfig{OnDelete: FailObjAfterNCalls(0, ErrInjected)},
			op: func(ctx context.Context, c client.Client, obj client.Object) error {
				return c.Delete(ctx, obj)
			},
		},
		"status update": {
			config: &FailureConfig{OnStatusUpdate: FailOnObjectName("svc", ErrInjected)},
			op: func(ctx context.Context, c client.Client, obj client.Object) error {
				return c.Status().Update(ctx, obj)
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			svc := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "svc", Namespace: "default"}}
			c := NewFakeClientWithFailures(newBaseClient(svc), tc.config)

			current := &corev1.Service{}
			if err := c.Get(t.Context(), client.ObjectKeyFromObject(svc), current); err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if err := tc.op(t.Context(), c, current); !errors.Is(err, ErrInjected) {
				t.Errorf("operation error = %v, want %v", err, ErrInjected)
			}
		})
	}
}

func TestFailOnType_OtherTypesPass(t *testing.T) {
	t.Parallel()

	fn := FailOnType[*corev1.ServiceAccount](ErrInjected)
	if err := fn(&corev1.Service{}); err != nil {
		t.Errorf("FailOnType() on Service = %v, want nil", err)
	}
	if err := fn(&corev1.ServiceAccount{}); !errors.Is(err, ErrInjected) {
		t.Errorf("FailOnType() on ServiceAccount = %v, want %v", err, ErrInjected)
	}
}
