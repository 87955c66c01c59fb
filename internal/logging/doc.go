// Package logging provides structured logging for the forge CLI built on
// log/slog.
//
// The default text handler is TTY-aware: it colorizes output when writing to
// a terminal that supports it and masks values that look like credentials.
// A JSON handler is available for machine consumption, and MultiHandler
// fans records out to several destinations (e.g. terminal plus a log file).
//
// Loggers travel on the context via NewContext/FromContext so commands and
// the wizard engine share one configured logger.
package logging
