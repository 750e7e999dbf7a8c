package scheduler

import (
	"fmt"
	"time"

	"github.com/ark-network/launchsite/internal/core/ports"
	"github.com/go-co-op/gocron"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

// ScheduleTask runs the task every interval seconds. A run is skipped while
// the previous one is still going.
func (s *service) ScheduleTask(interval int64, immediate bool, task func()) error {
	if interval <= 0 {
		return fmt.Errorf("invalid interval, must be positive")
	}

	job := s.scheduler.Every(int(interval)).Seconds().SingletonMode()
	if !immediate {
		job = job.WaitForSchedule()
	}
	_, err := job.Do(task)
	return err
}
