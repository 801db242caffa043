package progress

import "time"

// ChapterState tracks a learner's completion of one chapter.
type ChapterState struct {
	Completed    bool      `json:"completed"`
	LastAccessAt time.Time `json:"last_access_at"`
}

// QuizState tracks a learner's standing on one quiz. Passed mirrors the
// most recent attempt; Cleared is sticky and set the first time the
// learner passes, so aggregate progress never moves backwards.
type QuizState struct {
	LastScore     int       `json:"last_score"`
	Passed        bool      `json:"passed"`
	Cleared       bool      `json:"cleared"`
	Attempts      int       `json:"attempts"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
}

// Certificate is the once-issued completion artifact reference.
type Certificate struct {
	CertificateID string    `json:"certificate_id"`
	ArtifactRef   string    `json:"artifact_ref"`
	IssuedAt      time.Time `json:"issued_at"`
}

// Record is the per-learner-per-course progress state. It is owned
// exclusively by the progress store and reachable only through its
// atomic update; derived fields are recomputed by the engine after
// every mutation and never set by callers directly.
type Record struct {
	LearnerID   uint   `json:"learner_id"`
	LearnerName string `json:"-"`
	CourseID    uint   `json:"course_id"`

	Chapters map[uint]ChapterState `json:"chapters"`
	Quizzes  map[uint]QuizState    `json:"quizzes"`

	CompletionPercentage int  `json:"completion_percentage"`
	IsCompleted          bool `json:"is_completed"`

	Certificate *Certificate `json:"certificate,omitempty"`
}

// NewRecord returns a blank record for a (learner, course) pair.
func NewRecord(learnerID, courseID uint) *Record {
	return &Record{
		LearnerID: learnerID,
		CourseID:  courseID,
		Chapters:  make(map[uint]ChapterState),
		Quizzes:   make(map[uint]QuizState),
	}
}

// Clone returns a deep copy. Store implementations hand mutators a copy
// so an aborted update never leaves partial state behind.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Chapters = make(map[uint]ChapterState, len(r.Chapters))
	for id, st := range r.Chapters {
		cp.Chapters[id] = st
	}
	cp.Quizzes = make(map[uint]QuizState, len(r.Quizzes))
	for id, st := range r.Quizzes {
		cp.Quizzes[id] = st
	}
	if r.Certificate != nil {
		cert := *r.Certificate
		cp.Certificate = &cert
	}
	return &cp
}
