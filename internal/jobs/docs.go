// Package jobs provides scheduled background tasks for the assignment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the matching service.
//
// # Available Jobs
//
// 1. AssignmentSweepJob - Runs every second to match the oldest unassigned
// order with an eligible provider
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(assignOrderHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "* * * * * *", i.e. it runs every
// second. Each tick assigns at most one order; a queue that built up while a
// zone was out of capacity drains over successive ticks.
//
// # Error Handling
//
// The sweep ignores expected business outcomes (empty queue, no eligible
// provider) and logs everything else as a system error.
package jobs
