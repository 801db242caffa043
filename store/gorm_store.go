package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"coursetrack/engine"
	"coursetrack/models/progress"
)

// ProgressRow is the persisted shape of a progress record. Status maps
// are stored as typed JSON columns; the certificate is flattened onto
// the row so a record can never carry more than one.
type ProgressRow struct {
	gorm.Model
	LearnerID   uint   `gorm:"uniqueIndex:idx_progress_learner_course;not null"`
	CourseID    uint   `gorm:"uniqueIndex:idx_progress_learner_course;not null"`
	LearnerName string

	Chapters datatypes.JSONType[map[uint]progress.ChapterState]
	Quizzes  datatypes.JSONType[map[uint]progress.QuizState]

	CompletionPercentage int  `gorm:"default:0"`
	IsCompleted          bool `gorm:"default:false"`

	CertificateID  string `gorm:"index"`
	CertificateRef string
	CertifiedAt    *time.Time
}

func (ProgressRow) TableName() string { return "progress_records" }

// GormStore keeps progress records in the database. Updates for the
// same (learner, course) key are serialized through an in-process lock
// and committed in a single transaction, so a mutator always sees the
// previous commit and an aborted update leaves nothing behind.
type GormStore struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[engine.ProgressKey]*sync.Mutex
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:    db,
		locks: make(map[engine.ProgressKey]*sync.Mutex),
	}
}

func (s *GormStore) keyLock(learnerID, courseID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := engine.ProgressKey{LearnerID: learnerID, CourseID: courseID}
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Get returns the learner's record for a course, or a blank record if
// none exists yet. Records are created lazily on first update.
func (s *GormStore) Get(ctx context.Context, learnerID, courseID uint) (*progress.Record, error) {
	var row ProgressRow
	err := s.db.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return progress.NewRecord(learnerID, courseID), nil
	}
	if err != nil {
		return nil, &engine.TransientError{Err: err}
	}
	return rowToRecord(&row), nil
}

// AtomicUpdate applies fn to the current record and commits the result.
func (s *GormStore) AtomicUpdate(ctx context.Context, learnerID, courseID uint, fn engine.Mutator) (*progress.Record, error) {
	lock := s.keyLock(learnerID, courseID)
	lock.Lock()
	defer lock.Unlock()

	var (
		updated *progress.Record
		fnErr   error
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row ProgressRow
		err := tx.Where("learner_id = ? AND course_id = ?", learnerID, courseID).First(&row).Error
		fresh := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !fresh {
			return err
		}

		rec := progress.NewRecord(learnerID, courseID)
		if !fresh {
			rec = rowToRecord(&row)
		}
		if err := fn(rec); err != nil {
			fnErr = err
			return err
		}

		recordToRow(rec, &row)
		if fresh {
			row.LearnerID = learnerID
			row.CourseID = courseID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&row).Error; err != nil {
			return err
		}

		updated = rec
		return nil
	})
	if err != nil {
		if fnErr != nil {
			return nil, fnErr
		}
		return nil, &engine.TransientError{Err: err}
	}
	return updated, nil
}

// ListCompletedUncertified returns keys of records whose course is
// complete but whose certificate render has not succeeded yet.
func (s *GormStore) ListCompletedUncertified(ctx context.Context) ([]engine.ProgressKey, error) {
	var rows []ProgressRow
	err := s.db.WithContext(ctx).
		Where("is_completed = ? AND certificate_id = ?", true, "").
		Find(&rows).Error
	if err != nil {
		return nil, &engine.TransientError{Err: err}
	}
	keys := make([]engine.ProgressKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, engine.ProgressKey{LearnerID: row.LearnerID, CourseID: row.CourseID})
	}
	return keys, nil
}

// ListCertified returns the learner's certified records, newest first.
func (s *GormStore) ListCertified(ctx context.Context, learnerID uint) ([]*progress.Record, error) {
	var rows []ProgressRow
	err := s.db.WithContext(ctx).
		Where("learner_id = ? AND certificate_id <> ?", learnerID, "").
		Order("certified_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, &engine.TransientError{Err: err}
	}
	recs := make([]*progress.Record, 0, len(rows))
	for i := range rows {
		recs = append(recs, rowToRecord(&rows[i]))
	}
	return recs, nil
}

func rowToRecord(row *ProgressRow) *progress.Record {
	rec := &progress.Record{
		LearnerID:            row.LearnerID,
		LearnerName:          row.LearnerName,
		CourseID:             row.CourseID,
		Chapters:             row.Chapters.Data(),
		Quizzes:              row.Quizzes.Data(),
		CompletionPercentage: row.CompletionPercentage,
		IsCompleted:          row.IsCompleted,
	}
	if rec.Chapters == nil {
		rec.Chapters = make(map[uint]progress.ChapterState)
	}
	if rec.Quizzes == nil {
		rec.Quizzes = make(map[uint]progress.QuizState)
	}
	if row.CertificateID != "" && row.CertifiedAt != nil {
		rec.Certificate = &progress.Certificate{
			CertificateID: row.CertificateID,
			ArtifactRef:   row.CertificateRef,
			IssuedAt:      *row.CertifiedAt,
		}
	}
	return rec
}

func recordToRow(rec *progress.Record, row *ProgressRow) {
	row.LearnerName = rec.LearnerName
	row.Chapters = datatypes.NewJSONType(rec.Chapters)
	row.Quizzes = datatypes.NewJSONType(rec.Quizzes)
	row.CompletionPercentage = rec.CompletionPercentage
	row.IsCompleted = rec.IsCompleted
	if rec.Certificate != nil {
		row.CertificateID = rec.Certificate.CertificateID
		row.CertificateRef = rec.Certificate.ArtifactRef
		issuedAt := rec.Certificate.IssuedAt
		row.CertifiedAt = &issuedAt
	}
}
