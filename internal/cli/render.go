package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/manifest"
	"github.com/medconnect/inference-operator/pkg/resolver"
	"github.com/medconnect/inference-operator/pkg/resource-handler/controller/inferenceservice"
)

func newRenderCommand(o *rootOptions) *cobra.Command {
	var (
		file       string
		namespace  string
		resolverOp resolver.Options
	)

	cmd := &cobra.Command{
		Use:   "render -f FILE",
		Short: "Render the Kubernetes manifest of an InferenceService",
		Long: `Reads an InferenceService, applies the operator defaults and writes the
ServiceAccount, Deployment, Service, Ingress and HorizontalPodAutoscaler it
produces as multi-document YAML. The result is validated before it is
written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer in.Close()

			objs, err := manifest.DecodeObjects(in)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			isvc, err := singleInferenceService(objs)
			if err != nil {
				return err
			}
			if isvc.Namespace == "" {
				isvc.Namespace = namespace
			}

			resolved := resolver.NewResolver(resolverOp).Resolve(isvc)
			if err := resolver.ValidateSpec(resolved).ToAggregate(); err != nil {
				return fmt.Errorf("invalid InferenceService %s: %w", isvc.Name, err)
			}

			bundle, err := inferenceservice.BuildBundle(resolved, nil)
			if err != nil {
				return err
			}
			if err := manifest.Validate(bundle).ToAggregate(); err != nil {
				return fmt.Errorf("invalid InferenceService %s: %w", isvc.Name, err)
			}

			o.logger.V(1).Info("Rendering bundle", "name", isvc.Name, "objects", len(bundle.Objects()))
			return manifest.Render(cmd.OutOrStdout(), bundle)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "filename", "f", "", "InferenceService file, or - for stdin")
	flags.StringVarP(&namespace, "namespace", "n", "default", "Namespace used when the InferenceService sets none")
	flags.StringVar(&resolverOp.Image, "default-image", "", "Image used when the InferenceService sets none")
	flags.StringVar(&resolverOp.Environment, "default-environment", "", "Deployment stage used when the InferenceService sets none")
	flags.StringVar(&resolverOp.AWSRegion, "default-region", "", "AWS region used when the InferenceService sets none")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}

func singleInferenceService(objs []runtime.Object) (*medconnectv1alpha1.InferenceService, error) {
	var found *medconnectv1alpha1.InferenceService
	for _, obj := range objs {
		isvc, ok := obj.(*medconnectv1alpha1.InferenceService)
		if !ok {
			continue
		}
		if found != nil {
			return nil, errors.New("expected a single InferenceService, found several")
		}
		found = isvc
	}
	if found == nil {
		return nil, errors.New("no InferenceService found")
	}
	return found, nil
}
