// Package session manages the client-held session lifecycle for the health
// agent domains (diet, fitness, mental-health). One Manager instance is
// created per domain namespace; each gets its own storage keys and defaults.
//
// # Architecture
//
// A Manager composes four collaborators, all injected so tests can
// substitute fakes and multiple domains can coexist without interference:
//
//   - a DualStore persisting the record through a durable and a backup
//     storage tier that stay byte-identical after every mutation;
//   - a clock.Clock driving the expiry-check and inactivity loops;
//   - a Tracker debouncing raw user-interaction signals into activity events;
//   - a Negotiator extending expired sessions, network-first with a
//     user-confirmed offline fallback.
//
// Lifecycle states move Uninitialized → Active ⇄ Warning → Expired →
// {Renewing → Active|Offline, Cleared}; explicit sign-out reaches Cleared
// from anywhere.
//
// # Usage
//
//	cfg := session.DefaultConfig()
//	cfg.Namespace = "fitness"
//
//	mgr := session.New(cfg,
//		session.WithDurableTier(boltTier),
//		session.WithRenewalClient(session.NewHTTPRenewalClient(baseURL, nil)),
//		session.WithConfirmFunc(promptUser),
//	)
//	if err := mgr.Init(onWarning, onExpired); err != nil {
//		// handle error
//	}
//
//	_ = mgr.CreateSession(ctx, profileJSON, token)
//	if st := mgr.Status(); st.IsValid {
//		// render signed-in UI
//	}
//
// # Failure semantics
//
// Storage corruption is treated as "no session", never as a fatal error.
// Network failures during renewal degrade to offline mode instead of forcing
// logout. A declined renewal, inactivity expiry or explicit sign-out is
// terminal and fires the onExpired callback exactly once per session.
package session
