// Package resolver provides the central logic for calculating the "Effective Specification"
// of an InferenceService.
//
// Every field of an InferenceService is optional. The Resolver is the single source of truth
// for the values that fill the gaps, so the mutating webhook, the reconciler and the
// medconnect CLI always agree on the final configuration.
//
// # Logic Hierarchy
//
// When calculating the final configuration, the Resolver applies the following precedence
// (highest to lowest):
//
//  1. Inline Spec (values set on the InferenceService itself).
//  2. Operator Defaults (values passed to NewResolver, e.g. from operator flags).
//  3. Global Defaults (hardcoded constants like the default image or replica bounds).
//
// # Dual Usage
//
//  1. Mutation (Webhook):
//     PopulateDefaults applies every default to the API object itself, so users see the
//     effective configuration with kubectl.
//
//  2. Reconciliation and Rendering (Controller, CLI):
//     Resolve returns a defaulted deep copy without touching the stored object.
//
//  3. Validation (Webhook, CLI):
//     ValidateSpec enforces rules that only concern the spec itself (e.g. extra env vars
//     shadowing the workload contract). Cross-object rules live in pkg/manifest.
//
// Usage:
//
//	res := resolver.NewResolver(resolver.Options{Environment: "prod"})
//	effective := res.Resolve(isvc)
//	if errs := resolver.ValidateSpec(effective); len(errs) > 0 {
//	    return errs.ToAggregate()
//	}
package resolver
