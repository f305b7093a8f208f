// Package logging configures the structured slog loggers used across sortd.
// The console format prints one compact line per record with flattened
// key=value attributes; the json format emits machine-readable records with
// stable ts/level/msg keys. Status output meant for people goes through the
// events package instead; this package is for operational logs.
package logging
