package manifest

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

var (
	// Scheme knows the built-in Kubernetes kinds and the medconnect API.
	Scheme = runtime.NewScheme()

	codecs serializer.CodecFactory
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(Scheme))
	utilruntime.Must(medconnectv1alpha1.AddToScheme(Scheme))
	codecs = serializer.NewCodecFactory(Scheme)
}
