package cmdlog

import (
	"github.com/HaraFumitaka/twitter-app/internal/logging"
	"github.com/HaraFumitaka/twitter-app/internal/metrics"
)

// Run executes one CLI command body, counting the run and logging the outcome.
func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	err := f()
	if err != nil {
		metrics.IncCommandError(cmd)
		logging.Error(cmd+"_error", map[string]any{"error": err.Error()})
	} else {
		logging.Info(cmd+"_ok", nil)
	}
	return err
}
