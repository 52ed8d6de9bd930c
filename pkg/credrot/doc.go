// Package credrot provides an embeddable credential rotator.
//
// A Rotor takes a batch of opaque credentials, validates them, and activates
// them one at a time. Activating means writing the credential into the
// host's identity storage and restarting the host, which destroys all
// in-memory state. Progress therefore lives in a single-slot store that
// survives the restart, and the host resumes on its own when it comes back.
//
// # Basic Usage
//
//	rotor, err := credrot.New(credrot.Config{StateDir: "/var/lib/credrot"},
//	    credrot.WithValidator(validator),
//	    credrot.WithIdentityWriter(identityFile),
//	    credrot.WithRestarter(restarter),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// In the host process:
//	go rotor.Run(ctx)
//
//	// Anywhere sharing the state directory:
//	report, err := rotor.Start(ctx, rawList, "ops-channel")
//
// # Sessions
//
// At most one session exists at a time. Start replaces it, Stop and Login
// clear it, and it is removed when its queue is exhausted. Every step is
// persisted before it is announced, so a restart at any point resumes at the
// next credential.
//
// # Cancellation
//
// Stop and the cancel control carried by a step notification only clear the
// store. A scheduled step reads the store again right before activating and
// gives up if the session is gone; a Stop that arrives after that read does
// not prevent the activation.
//
// # Plugins
//
// Plugins registered with [WithPlugin] run for the lifetime of [Rotor.Run].
// The storewatcher plugin wakes an idle host when another process writes a
// new session:
//
//	import "github.com/bft-labs/credrot/plugins/storewatcher"
//
//	rotor, err := credrot.New(cfg, storewatcher.WithDefaultStoreWatcher())
package credrot
