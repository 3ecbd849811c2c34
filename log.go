package atombios

import "github.com/sirupsen/logrus"

// NewLogger returns a logrus.Logger preconfigured the way an embedder
// typically wants one for atombios: text output on stderr at Info level.
// Callers are free to build their own *logrus.Logger and pass it to New
// instead -- this is a convenience, not a requirement.
func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}

// The five severities the original library logs at map onto logrus as
// follows, and every call site in this package logs directly at the
// matching logrus level rather than through an intermediate wrapper:
//
//	VERBOSE -> Debug
//	DEBUG   -> Trace
//	INFO    -> Info
//	WARNING -> Warn
//	ERROR   -> Error
//
// DEBUG is rarer and noisier than VERBOSE in the original library's usage,
// which is why it lands on logrus's lowest level rather than its most
// commonly-enabled one.
