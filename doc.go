// Package sqlauth authenticates accounts against credentials stored in a
// pre-existing SQL database instead of the host's internal password store,
// while keeping a local account record in sync for every identity that
// proves itself.
//
// Attempt lifecycle:
//   - Dispatcher.CheckAuthentication captures the active engine and query
//     template, binds the account/password/nickname/ip-address parameters,
//     and submits the lookup with a fresh Attempt as the result sink. The
//     attempt holds the identify request until it resolves.
//   - The engine calls back once, later, with rows or an error. The attempt
//     normalizes the stored hash (NormalizeHash), verifies the password
//     (ComparePasswordAndHash), and on a match drives the Provisioner
//     before signaling Success. Every branch resolves exactly once and
//     releases the hold; a per-attempt deadline bounds engine outages.
//
// Provisioning:
//   - First successful authentication for an unknown name creates the
//     Account and its owning AccountGroup lazily, with deterministic ids so
//     concurrent first logins converge on one row. A non-empty store e-mail
//     that differs from the group's is written through. Both steps are
//     idempotent; registrations and e-mail updates fan out on ActivitySink.
//
// Policy:
//   - CommandGate suppresses local register/group/set-email commands when a
//     disable message is configured or a feature gate turns them off, since
//     the external store owns those fields.
//   - VetoExpiry keeps a group's primary display name from expiring while
//     other aliases remain.
package sqlauth
