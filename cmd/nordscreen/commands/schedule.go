package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nordvik/nordscreen/internal/scheduler"
	"github.com/nordvik/nordscreen/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the recurring screening jobs",
	Long: `Starts the job scheduler in the foreground:

  nightly_screen      - full screening cycle, daily at 05:00 UTC
  weekly_cache_flush  - clears the data cache, Sundays at 04:00 UTC

Example:
  go run ./cmd/nordscreen schedule`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	application, cleanup, err := newApp(false, false)
	if err != nil {
		return err
	}
	defer cleanup()

	sched := scheduler.New(application.log)

	if err := sched.AddJob(jobs.NewScreenJob(application.pipeline, application.log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewCacheFlushJob(application.cache, application.log)); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	fmt.Println("Scheduler running, press Ctrl+C to stop")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
