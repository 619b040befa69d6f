package cmd

import (
	"github.com/sirupsen/logrus"
)

// newLogger returns a logger at the shared logger's level, raised to DebugLevel
// when verbose is set.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(Logger.GetLevel())

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
