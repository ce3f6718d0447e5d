// Package deploy provisions the MedConnect infrastructure from a workstation.
//
// A deployment is a fixed, fail-fast sequence:
//
//  1. preflight: every required tool (aws, python3, pip3, cdk) must be on
//     PATH, otherwise nothing else runs;
//  2. the environment and region are exported to the process and to every
//     child command;
//  3. optionally, the caller's AWS identity is verified;
//  4. the Python dependencies are installed with pip3;
//  5. every CDK stack is deployed without interactive approval.
//
// There are no retries and no rollback. [ExitCode] maps the error returned
// by [Deployer.Deploy] to the process exit code: 1 for usage errors, missing
// tools and identity failures, otherwise the exit code of the failing
// command.
package deploy
