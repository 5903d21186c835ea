package autoattach

import (
	"github.com/sirupsen/logrus"
)

// Logger is the logging surface of the module. logrus satisfies it out of
// the box; any other structured logger can be adapted.
type Logger interface {
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
}

func defaultLogger() Logger {
	return logrus.StandardLogger()
}
