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

// Package webhook provides the entry point for configuring Kubernetes admission
// webhooks for the inference operator.
//
// The package exposes a [Setup] function that registers the InferenceService
// handlers with the controller-runtime manager:
//
//   - Mutating Webhook: applies the resolver defaults before the object is
//     persisted, so the stored spec is the spec the reconciler renders.
//
//   - Validating Webhook: renders the object into its bundle and rejects
//     anything the bundle checks would flag at reconcile time.
//
// # TLS Certificates
//
// The webhook server reads tls.crt and tls.key from [Options.CertDir]. The
// certificates are provisioned outside the operator (for example by
// cert-manager) and mounted into the pod.
package webhook
