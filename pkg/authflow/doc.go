// Package authflow implements the authentication decision chain: the
// ordered policy stages applied to every login attempt.
//
// Each stage is a Step that may pass through, deny terminally, or
// produce side effects and continue. Stages are composed explicitly by
// the caller (or via DefaultFlow) and executed in Order; the result is a
// Decision with one of three outcomes:
//
//   - Allow: credentials verified and no policy objected
//   - Deny: a stage terminally rejected the attempt, with a server-side
//     stage name and reason
//   - Inconclusive: no stage claimed the decision; the caller's next
//     authentication handler gets its chance
//
// The standard stage order runs the hygiene checks before credential
// verification:
//
//	flow := authflow.DefaultFlow(&authflow.ServiceDependencies{...})
//	decision, err := flow.Execute(ctx, authflow.Request{
//		Credentials: authflow.Credentials{Username: "alice", Password: pw},
//		Source:      src,
//	})
//
// Every failed attempt, including denials from the expiry checks, logs a
// failure event and increments the per-username failed-attempt counter.
// Counters are keyed by the raw input string, so unknown usernames
// behave exactly like real ones and account existence is not leaked
// through counting behavior. When the configured failure limit is
// reached the identity is deactivated and the denial carries the
// distinguishable limit reason.
//
// Storage failures are returned to the caller unmodified; the chain
// never retries and never converts them into denials.
package authflow
