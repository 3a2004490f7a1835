package config

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the standard logrus logger. CI runs get JSON
// lines so log collectors can parse them; terminals get plain text.
func SetupLogging(level string, w io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(w)

	if InCI() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.WithField("ci", CIName()).Debug("CI detected, using JSON logs")
		return nil
	}
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}
