/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package v1alpha1 defines the API types for the MedConnect inference operator.
//
// The medconnect.io group has a single user-facing resource:
//
//   - InferenceService: the desired state of an HTTP inference workload. One
//     InferenceService expands into five Kubernetes objects owned by it.
//
// # Resource Hierarchy
//
//	InferenceService
//	├── ServiceAccount (identity binding to an external cloud role)
//	├── Deployment (replicated inference pods, surge-only rollout)
//	├── Service (stable in-cluster endpoint)
//	├── Ingress (path-prefix route to the Service)
//	└── HorizontalPodAutoscaler (CPU / memory utilization targets)
//
// Every field of the spec is optional. Defaults are materialized by the
// resolver (pkg/resolver), which is shared by the mutating webhook, the
// reconciler and the medconnect CLI so all three produce identical objects.
//
// # Versioning
//
// This is the v1alpha1 version, indicating the API is in early development
// and may change in backward-incompatible ways.
package v1alpha1
