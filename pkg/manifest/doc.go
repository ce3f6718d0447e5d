// Package manifest holds the five Kubernetes objects that make up an
// inference workload as one Bundle, and converts bundles to and from
// multi-document YAML.
//
// Validate enforces the relations between the objects: the Service and the
// autoscaler must target the Deployment, the Ingress must route to the
// Service, the pods must run under the bundle's ServiceAccount and every
// container must receive the workload environment contract.
package manifest
