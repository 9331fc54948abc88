// Package utils carries the logrus based logger factory and its console
// formatters.
package utils
