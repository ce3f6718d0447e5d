package manifest

import (
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
	"sigs.k8s.io/yaml"
)

const documentSeparator = "---\n"

// Render writes the bundle as multi-document YAML in apply order.
func Render(w io.Writer, b *Bundle) error {
	return RenderObjects(w, b.Objects()...)
}

// RenderObjects writes objs as multi-document YAML. apiVersion and kind are
// filled from the scheme; status and server-populated metadata are dropped.
func RenderObjects(w io.Writer, objs ...client.Object) error {
	for i, obj := range objs {
		out, err := marshal(obj)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, documentSeparator); err != nil {
				return err
			}
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func marshal(obj client.Object) ([]byte, error) {
	gvk, err := apiutil.GVKForObject(obj, Scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve kind of %T: %w", obj, err)
	}

	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s %s: %w", gvk.Kind, obj.GetName(), err)
	}
	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(gvk)
	delete(u.Object, "status")
	unstructured.RemoveNestedField(u.Object, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u.Object, "spec", "template", "metadata", "creationTimestamp")

	out, err := yaml.Marshal(u.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s %s: %w", gvk.Kind, obj.GetName(), err)
	}
	return out, nil
}
