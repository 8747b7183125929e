package worker

import (
	"github.com/spec-kit/task-tracker/internal/service"
)

// StartStatsWorker wires stat cache invalidation to task events.
func StartStatsWorker(statsService *service.StatsService) {
	if statsService == nil {
		return
	}
	statsService.RegisterHandlers()
}
