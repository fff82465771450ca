// Package log provides structured logging of instrument session events.
//
// Every interaction with an instrument - connecting, commands, queries,
// readings, state changes, errors - is captured as an Event and handed
// to a Logger. Loggers can fan out (MultiLogger), forward to slog
// (SlogAdapter), or persist events to a compact CBOR file (FileLogger)
// that Reader streams back for offline inspection.
package log
