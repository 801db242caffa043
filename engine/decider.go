package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coursetrack/models/course"
	"coursetrack/models/progress"
)

// Renderer produces a durable certificate artifact for a completed
// course, returning a reference (URL or path) to it.
type Renderer interface {
	Render(ctx context.Context, learnerName, courseTitle string, issuedAt time.Time) (string, error)
}

// maybeIssueCertificate issues a certificate if the record just became
// eligible. Already-certified records are left untouched, incomplete
// records are skipped. A render failure leaves the record uncertified
// and is reported separately so the progress commit still goes through;
// issuance is re-attempted later since IsCompleted stays true.
func (e *Engine) maybeIssueCertificate(ctx context.Context, snap *course.Snapshot, rec *progress.Record) (issuedNow bool, renderErr error) {
	if rec.Certificate != nil {
		return false, nil
	}
	if !rec.IsCompleted {
		return false, nil
	}

	now := e.now()
	ref, err := e.renderer.Render(ctx, rec.LearnerName, snap.Title, now)
	if err != nil {
		return false, err
	}

	rec.Certificate = &progress.Certificate{
		CertificateID: uuid.NewString(),
		ArtifactRef:   ref,
		IssuedAt:      now,
	}
	return true, nil
}
