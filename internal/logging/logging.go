// Package logging configures the service-wide logrus logger.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const serviceName = "orders-admin"

// Fields is an alias so callers don't need to import logrus for field maps.
type Fields = logrus.Fields

// Setup configures the standard logrus logger from the log level and format
// ("text" or "json").
func Setup(level, format string) {
	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithField("level", level).Warn("Unknown log level, falling back to info")
	}
	logrus.SetLevel(lvl)
}

// New returns a logger entry tagged with the service and component names.
func New(component string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"service":   serviceName,
		"component": component,
	})
}
