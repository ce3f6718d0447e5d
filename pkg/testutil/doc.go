// Package testutil provides test helpers for the operator's controllers.
//
// NewFakeClientWithFailures wraps a controller-runtime client and injects
// errors on selected calls, so reconcile error paths can be tested without
// an API server:
//
//	c := testutil.NewFakeClientWithFailures(base, &testutil.FailureConfig{
//	    OnCreate: testutil.FailOnType[*appsv1.Deployment](testutil.ErrInjected),
//	})
package testutil
