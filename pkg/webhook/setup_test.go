package webhook

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	"github.com/medconnect/inference-operator/pkg/manifest"
	"github.com/medconnect/inference-operator/pkg/resolver"
)

// mockManager implements manager.Manager for testing.
type mockManager struct {
	manager.Manager
	client client.Client
	server *mockServer
	scheme *runtime.Scheme
}

func (m *mockManager) GetScheme() *runtime.Scheme {
	if m.scheme != nil {
		return m.scheme
	}
	return runtime.NewScheme()
}

func (m *mockManager) GetClient() client.Client {
	return m.client
}

func (m *mockManager) GetWebhookServer() webhook.Server {
	return m.server
}

func (m *mockManager) GetLogger() logr.Logger {
	return logr.Discard()
}

func (m *mockManager) GetConfig() *rest.Config {
	return &rest.Config{}
}

func (m *mockManager) Add(r manager.Runnable) error {
	return nil
}

// mockServer records the registered paths.
type mockServer struct {
	webhook.Server
	paths []string
	mux   *http.ServeMux
}

func (s *mockServer) Register(path string, handler http.Handler) {
	s.paths = append(s.paths, path)
	s.mux.Handle(path, handler)
}

func (s *mockServer) WebhookMux() *http.ServeMux { return s.mux }

func newMockManager(scheme *runtime.Scheme) *mockManager {
	return &mockManager{
		client: fake.NewClientBuilder().WithScheme(manifest.Scheme).Build(),
		server: &mockServer{mux: http.NewServeMux()},
		scheme: scheme,
	}
}

func TestSetup(t *testing.T) {
	t.Parallel()

	res := resolver.NewResolver(resolver.Options{})

	tests := map[string]struct {
		mgr         *mockManager
		resolver    *resolver.Resolver
		opts        Options
		wantPaths   []string
		expectError string
	}{
		"Happy Path: Standard Configuration": {
			mgr:      newMockManager(manifest.Scheme),
			resolver: res,
			opts:     Options{Enable: true, CertDir: "/tmp/k8s-webhook-server/serving-certs"},
			wantPaths: []string{
				"/mutate-medconnect-io-v1alpha1-inferenceservice",
				"/validate-medconnect-io-v1alpha1-inferenceservice",
			},
		},
		"Happy Path: Disabled": {
			mgr:      newMockManager(manifest.Scheme),
			resolver: res,
			opts:     Options{Enable: false},
		},
		"Error: Missing Resolver": {
			mgr:         newMockManager(manifest.Scheme),
			opts:        Options{Enable: true},
			expectError: "requires a resolver",
		},
		"Error: Scheme Without InferenceService": {
			mgr:         newMockManager(runtime.NewScheme()),
			resolver:    res,
			opts:        Options{Enable: true},
			expectError: "failed to register InferenceService webhooks",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := Setup(tc.mgr, tc.resolver, tc.opts)
			if tc.expectError != "" {
				if err == nil || !strings.Contains(err.Error(), tc.expectError) {
					t.Fatalf("Setup() error = %v, want %q", err, tc.expectError)
				}
				return
			}
			if err != nil {
				t.Fatalf("Setup() unexpected error: %v", err)
			}
			for _, want := range tc.wantPaths {
				found := false
				for _, got := range tc.mgr.server.paths {
					if got == want {
						found = true
					}
				}
				if !found {
					t.Errorf("path %s not registered, got %v", want, tc.mgr.server.paths)
				}
			}
			if len(tc.wantPaths) == 0 && len(tc.mgr.server.paths) != 0 {
				t.Errorf("no paths expected, got %v", tc.mgr.server.paths)
			}
		})
	}
}
