package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/controllers"
)

const refreshTimeout = 2 * time.Minute

// Scheduler manages the periodic catalog refresh that keeps the response
// cache warm between user visits
type Scheduler struct {
	cron        *cron.Cron
	catalogCtrl *controllers.CatalogController
	logger      *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(catalogCtrl *controllers.CatalogController, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		catalogCtrl: catalogCtrl,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 30 minutes: refresh the curated catalog lists
	_, err := s.cron.AddFunc("*/30 * * * *", func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Warm the cache immediately so the first visit is served hot
	go s.runRefresh()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runRefresh executes one catalog refresh cycle
func (s *Scheduler) runRefresh() {
	s.logger.Info("Running scheduled catalog refresh")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	page, err := s.catalogCtrl.LoadHome(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Catalog refresh failed")
		return
	}

	populated := 0
	for _, category := range page.Categories {
		if len(category.Items) > 0 {
			populated++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"categories": len(page.Categories),
		"populated":  populated,
	}).Info("Catalog refresh completed")
}
