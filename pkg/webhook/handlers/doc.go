// Package handlers implements admission control for InferenceService.
//
// It contains implementations of the controller-runtime CustomDefaulter and
// CustomValidator interfaces:
//
//  1. Mutation (Defaulter):
//     Applies the defaults of pkg/resolver on CREATE and UPDATE, so defaults
//     applied at admission time are identical to those applied by the
//     reconciler.
//
//  2. Validation (Validator):
//     Resolves the object, renders it into its bundle with the same builders
//     the reconciler uses, and rejects the request with every field-level
//     violation. Deletes are always allowed.
package handlers
