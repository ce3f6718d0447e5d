package webhook

import (
	"fmt"

	ctrl "sigs.k8s.io/controller-runtime"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/resolver"
	"github.com/medconnect/inference-operator/pkg/webhook/handlers"
)

// Options contains the configuration required to set up the webhook server.
type Options struct {
	// Enable indicates whether to register the webhooks.
	Enable bool
	// CertDir is the directory holding tls.crt and tls.key.
	CertDir string
}

// Setup registers the InferenceService defaulter and validator with the
// manager's webhook server. It is a no-op when the webhooks are disabled.
func Setup(mgr ctrl.Manager, res *resolver.Resolver, opts Options) error {
	if !opts.Enable {
		return nil
	}
	if res == nil {
		return fmt.Errorf("webhook setup requires a resolver")
	}

	logger := mgr.GetLogger().WithName("webhook-setup")
	logger.Info("Setting up webhook server", "certDir", opts.CertDir)

	err := ctrl.NewWebhookManagedBy(mgr).
		For(&medconnectv1alpha1.InferenceService{}).
		WithDefaulter(handlers.NewInferenceServiceDefaulter(res)).
		WithValidator(handlers.NewInferenceServiceValidator(res)).
		Complete()
	if err != nil {
		return fmt.Errorf("failed to register InferenceService webhooks: %w", err)
	}
	return nil
}
