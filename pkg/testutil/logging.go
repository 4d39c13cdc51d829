package testutil

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

// Logs are discarded unless the test binary runs verbosely.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if arg == "-test.v=true" || arg == "-test.v" {
			return
		}
	}
	logrus.SetOutput(io.Discard)
}

// PreserveLogger restores the standard logger's level, formatter and output
// once t completes, for tests exercising code that reconfigures logging.
func PreserveLogger(t *testing.T) {
	logger := logrus.StandardLogger()

	level := logger.GetLevel()
	formatter := logger.Formatter
	out := logger.Out

	t.Cleanup(func() {
		logger.SetLevel(level)
		logger.SetFormatter(formatter)
		logger.SetOutput(out)
	})
}
