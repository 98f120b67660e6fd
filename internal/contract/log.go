package contract

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging points the standard logrus logger at stderr with the given level.
// Diagnostic logs never share stdout with table or CSV output.
func ConfigureLogging(level logrus.Level) {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
}
