package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger used across the service.
// An unknown level falls back to info.
func Init(level string, json bool) {
	logrus.SetOutput(os.Stdout)

	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.Warnf("[Logger] unknown log level %q, using info", level)
	}
	logrus.SetLevel(lvl)
}
