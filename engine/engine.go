package engine

import (
	"context"
	"log"
	"time"

	"coursetrack/models/course"
	"coursetrack/models/progress"
)

// SnapshotReader resolves a course id to an immutable snapshot of its
// chapters and quiz definitions.
type SnapshotReader interface {
	GetCourseSnapshot(ctx context.Context, courseID uint) (*course.Snapshot, error)
}

// Mutator receives the current progress record and edits it in place.
// Returning an error aborts the update with nothing committed.
type Mutator func(rec *progress.Record) error

// ProgressKey identifies one progress record.
type ProgressKey struct {
	LearnerID uint
	CourseID  uint
}

// ProgressStore owns all progress records. AtomicUpdate serializes
// concurrent updates per (learner, course) key: each mutator sees the
// result of the previous commit, so two near-simultaneous submissions
// can never lose an attempt or double-issue a certificate.
type ProgressStore interface {
	Get(ctx context.Context, learnerID, courseID uint) (*progress.Record, error)
	AtomicUpdate(ctx context.Context, learnerID, courseID uint, fn Mutator) (*progress.Record, error)
	ListCompletedUncertified(ctx context.Context) ([]ProgressKey, error)
	ListCertified(ctx context.Context, learnerID uint) ([]*progress.Record, error)
}

// Engine orchestrates the two public progress operations over injected
// collaborators. It holds no state of its own.
type Engine struct {
	catalog  SnapshotReader
	store    ProgressStore
	renderer Renderer
	now      func() time.Time
}

func New(catalog SnapshotReader, store ProgressStore, renderer Renderer) *Engine {
	return &Engine{
		catalog:  catalog,
		store:    store,
		renderer: renderer,
		now:      time.Now,
	}
}

// ChapterResult is returned by CompleteChapter.
type ChapterResult struct {
	CompletionPercentage int                   `json:"completion_percentage"`
	IsCompleted          bool                  `json:"is_completed"`
	Certificate          *progress.Certificate `json:"certificate"`
	CertificateIssued    bool                  `json:"certificate_issued"`
}

// QuizResult is returned by SubmitQuiz.
type QuizResult struct {
	ScoreResult
	CompletionPercentage int                   `json:"completion_percentage"`
	IsCompleted          bool                  `json:"is_completed"`
	Certificate          *progress.Certificate `json:"certificate"`
	CertificateIssued    bool                  `json:"certificate_issued"`
}

// IssuedCertificate pairs a certificate with its course for listings.
type IssuedCertificate struct {
	progress.Certificate
	CourseID    uint   `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

// CompleteChapter marks a chapter complete for the learner and
// recomputes their standing. Completing an already-completed chapter is
// a no-op that still refreshes the access time, so retries are safe.
func (e *Engine) CompleteChapter(ctx context.Context, learnerID uint, learnerName string, courseID, chapterID uint) (*ChapterResult, error) {
	snap, err := e.catalog.GetCourseSnapshot(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !snap.HasChapter(chapterID) {
		return nil, ErrChapterNotFound
	}

	var (
		issued    bool
		renderErr error
	)
	rec, err := e.store.AtomicUpdate(ctx, learnerID, courseID, func(rec *progress.Record) error {
		rec.LearnerName = learnerName
		st := rec.Chapters[chapterID]
		st.Completed = true
		st.LastAccessAt = e.now()
		rec.Chapters[chapterID] = st

		Recompute(snap, rec)
		issued, renderErr = e.maybeIssueCertificate(ctx, snap, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if renderErr != nil {
		log.Printf("certificate render failed for learner %d course %d: %v", learnerID, courseID, renderErr)
	}

	return &ChapterResult{
		CompletionPercentage: rec.CompletionPercentage,
		IsCompleted:          rec.IsCompleted,
		Certificate:          rec.Certificate,
		CertificateIssued:    issued,
	}, nil
}

// SubmitQuiz scores a submission and records the attempt. Scoring runs
// before the store is touched, so a malformed submission never mutates
// state. Re-submitting after a pass overwrites the last score but can
// never lower aggregate progress or revoke a certificate.
func (e *Engine) SubmitQuiz(ctx context.Context, learnerID uint, learnerName string, courseID, quizID uint, answers []Answer) (*QuizResult, error) {
	snap, err := e.catalog.GetCourseSnapshot(ctx, courseID)
	if err != nil {
		return nil, err
	}
	quiz, ok := snap.QuizByID(quizID)
	if !ok {
		return nil, ErrQuizNotFound
	}

	scored, err := Score(quiz, answers)
	if err != nil {
		return nil, err
	}

	var (
		issued    bool
		renderErr error
	)
	rec, err := e.store.AtomicUpdate(ctx, learnerID, courseID, func(rec *progress.Record) error {
		rec.LearnerName = learnerName
		st := rec.Quizzes[quizID]
		st.LastScore = scored.Score
		st.Passed = scored.Passed
		if scored.Passed {
			st.Cleared = true
		}
		st.Attempts++
		st.LastAttemptAt = e.now()
		rec.Quizzes[quizID] = st

		Recompute(snap, rec)
		issued, renderErr = e.maybeIssueCertificate(ctx, snap, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if renderErr != nil {
		log.Printf("certificate render failed for learner %d course %d: %v", learnerID, courseID, renderErr)
	}

	return &QuizResult{
		ScoreResult:          scored,
		CompletionPercentage: rec.CompletionPercentage,
		IsCompleted:          rec.IsCompleted,
		Certificate:          rec.Certificate,
		CertificateIssued:    issued,
	}, nil
}

// CourseProgress returns the learner's current standing without
// mutating anything. Records are created lazily, so an untouched course
// reads back as all-incomplete with zero percent.
func (e *Engine) CourseProgress(ctx context.Context, learnerID, courseID uint) (*progress.Record, error) {
	snap, err := e.catalog.GetCourseSnapshot(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rec, err := e.store.Get(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}
	view := rec.Clone()
	Recompute(snap, view)
	return view, nil
}

// Certificates lists every certificate issued to the learner.
func (e *Engine) Certificates(ctx context.Context, learnerID uint) ([]IssuedCertificate, error) {
	recs, err := e.store.ListCertified(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	out := make([]IssuedCertificate, 0, len(recs))
	for _, rec := range recs {
		issued := IssuedCertificate{
			Certificate: *rec.Certificate,
			CourseID:    rec.CourseID,
		}
		if snap, err := e.catalog.GetCourseSnapshot(ctx, rec.CourseID); err == nil {
			issued.CourseTitle = snap.Title
		}
		out = append(out, issued)
	}
	return out, nil
}

// ReissuePending re-attempts certificate rendering for records that
// completed while the renderer was unavailable. Returns the number of
// certificates issued this pass.
func (e *Engine) ReissuePending(ctx context.Context) (int, error) {
	keys, err := e.store.ListCompletedUncertified(ctx)
	if err != nil {
		return 0, err
	}

	issuedTotal := 0
	for _, key := range keys {
		snap, err := e.catalog.GetCourseSnapshot(ctx, key.CourseID)
		if err != nil {
			log.Printf("reissue skipped for course %d: %v", key.CourseID, err)
			continue
		}
		var (
			issued    bool
			renderErr error
		)
		_, err = e.store.AtomicUpdate(ctx, key.LearnerID, key.CourseID, func(rec *progress.Record) error {
			Recompute(snap, rec)
			issued, renderErr = e.maybeIssueCertificate(ctx, snap, rec)
			return nil
		})
		if err != nil {
			return issuedTotal, err
		}
		if renderErr != nil {
			log.Printf("certificate render failed for learner %d course %d: %v", key.LearnerID, key.CourseID, renderErr)
			continue
		}
		if issued {
			issuedTotal++
		}
	}
	return issuedTotal, nil
}
