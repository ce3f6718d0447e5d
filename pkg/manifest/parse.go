package manifest

import (
	"errors"
	"fmt"
	"io"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
)

const decoderBufferSize = 4096

// DecodeObjects reads every YAML or JSON document from r and decodes it
// into a typed object. Empty documents are skipped.
func DecodeObjects(r io.Reader) ([]runtime.Object, error) {
	decoder := utilyaml.NewYAMLOrJSONDecoder(r, decoderBufferSize)
	deserializer := codecs.UniversalDeserializer()

	var objs []runtime.Object
	for i := 0; ; i++ {
		var raw runtime.RawExtension
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return objs, nil
			}
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if len(raw.Raw) == 0 {
			continue
		}
		obj, _, err := deserializer.Decode(raw.Raw, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		objs = append(objs, obj)
	}
}

// Parse reads a multi-document manifest into a Bundle. Kinds other than the
// five bundle kinds and repeated kinds are errors.
func Parse(r io.Reader) (*Bundle, error) {
	objs, err := DecodeObjects(r)
	if err != nil {
		return nil, err
	}
	return FromObjects(objs...)
}

// FromObjects assembles decoded objects into a Bundle.
func FromObjects(objs ...runtime.Object) (*Bundle, error) {
	b := &Bundle{}
	for _, obj := range objs {
		var dup bool
		switch o := obj.(type) {
		case *corev1.ServiceAccount:
			dup = b.ServiceAccount != nil
			b.ServiceAccount = o
		case *appsv1.Deployment:
			dup = b.Deployment != nil
			b.Deployment = o
		case *corev1.Service:
			dup = b.Service != nil
			b.Service = o
		case *networkingv1.Ingress:
			dup = b.Ingress != nil
			b.Ingress = o
		case *autoscalingv2.HorizontalPodAutoscaler:
			dup = b.Autoscaler != nil
			b.Autoscaler = o
		default:
			return nil, fmt.Errorf("unsupported kind %s", kindOf(obj))
		}
		if dup {
			return nil, fmt.Errorf("duplicate %s in manifest", kindOf(obj))
		}
	}
	return b, nil
}

func kindOf(obj runtime.Object) string {
	gvk, err := apiutil.GVKForObject(obj, Scheme)
	if err != nil {
		return fmt.Sprintf("%T", obj)
	}
	return gvk.Kind
}
