// Package log is the structured logger shared by the rotor, its adapters and
// the CLI.
//
// The CLI logs through zerolog's console writer at the configured level:
//
//	logger := log.NewConsoleAdapter(os.Stderr, cfg.Level())
//	rotor, err := credrot.New(cfg, credrot.WithLogger(logger))
//
// Embedders with their own zerolog.Logger wrap it instead:
//
//	credrot.WithLogger(log.NewZerologAdapterWithLogger(appLogger))
//
// A Rotor built without WithLogger is silent.
//
// # Credentials
//
// Credentials must never reach a log sink verbatim. Use [Credential] to
// attach one to an entry; only its last four characters are kept:
//
//	logger.Info("step scheduled", log.Int("step", 2), log.Credential("credential", next))
package log
