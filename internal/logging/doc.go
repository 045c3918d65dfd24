// Package logging provides a small leveled logger for the photo gallery.
//
// Levels are DEBUG, INFO, WARN and ERROR, plus FATAL which exits the
// process. The level comes from the LOG_LEVEL environment variable, or
// DEBUG=true as a shortcut, and can be overridden at runtime with SetLevel.
package logging
