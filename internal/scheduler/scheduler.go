package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kvadrat/server/internal/market"
)

// Scheduler manages periodic market refreshes. Jobs run sequentially:
// a tick that arrives while a refresh is still running waits for it.
type Scheduler struct {
	service      *market.Service
	logger       *logrus.Logger
	interval     time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
	jobMutex     sync.Mutex
	isStartupRun bool
}

// NewScheduler creates a scheduler refreshing at the given interval.
func NewScheduler(service *market.Service, logger *logrus.Logger, interval time.Duration) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		service:      service,
		logger:       logger,
		interval:     interval,
		stopChan:     make(chan struct{}),
		isStartupRun: true,
	}
}

// Start begins the scheduled refreshes, including an immediate
// startup run.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	go func() {
		s.jobMutex.Lock()
		defer s.jobMutex.Unlock()
		s.logger.Info("Running startup refresh")
		s.runRefresh()
		s.isStartupRun = false
		s.logger.Info("Startup refresh completed")
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if s.isStartupRun {
				s.logger.Debug("Skipping scheduled refresh while startup is in progress")
				continue
			}
			s.jobMutex.Lock()
			s.logger.Info("Starting scheduled refresh")
			s.runRefresh()
			s.jobMutex.Unlock()
		}
	}
}

func (s *Scheduler) runRefresh() {
	if err := s.service.Refresh(context.Background()); err != nil {
		s.logger.WithError(err).Error("Scheduled refresh failed")
	} else {
		s.logger.Info("Scheduled refresh completed successfully")
	}
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
