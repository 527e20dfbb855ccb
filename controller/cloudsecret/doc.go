// Package cloudsecret contains the CloudSecret controller. A reconciliation
// reads the source secret through the provider client, computes a sync plan,
// runs the create, rotate and validate actions of the plan, writes generated
// values back to the provider and finally writes the derived Secret.
//
// The status advances Reconciling, Applying, Rotating or Validating when
// needed, then Synced, with one status write per phase change. The next sync
// is armed in the scheduler at the end of every reconciliation.
package cloudsecret
