package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"coursetrack/engine"
)

// logSweeper logs sweeper events with timestamp
func logSweeper(message string) {
	log.Printf("[CERT-SWEEPER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartCertificateSweeper schedules the certificate re-issuance sweep:
// progress records that completed while the renderer was down get their
// certificate rendered on the next pass. Returns the running scheduler
// so callers can Stop it on shutdown.
func StartCertificateSweeper(eng *engine.Engine, spec string) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		issued, err := eng.ReissuePending(context.Background())
		if err != nil {
			logSweeper("sweep failed: " + err.Error())
			return
		}
		if issued > 0 {
			logSweeper(fmt.Sprintf("issued %d pending certificate(s)", issued))
		}
	})
	if err != nil {
		logSweeper(fmt.Sprintf("invalid sweep schedule %q: %v", spec, err))
		return c
	}
	c.Start()
	logSweeper("certificate sweep scheduled: " + spec)
	return c
}
