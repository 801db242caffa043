package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"coursetrack/engine"
	"coursetrack/models/course"
)

// Reader loads immutable course snapshots from the catalog tables. The
// catalog is read-only here; authoring happens elsewhere.
type Reader struct {
	db *gorm.DB
}

func NewReader(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

// GetCourseSnapshot resolves a course id to its chapter list and quiz
// definitions. Unknown or deleted courses fail with ErrCourseNotFound.
func (r *Reader) GetCourseSnapshot(ctx context.Context, courseID uint) (*course.Snapshot, error) {
	db := r.db.WithContext(ctx)

	var c course.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, engine.ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	var chapters []course.Chapter
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("load chapters for course %d: %w", courseID, err)
	}

	var quizzes []course.Quiz
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("load quizzes for course %d: %w", courseID, err)
	}

	snap := &course.Snapshot{
		CourseID: c.ID,
		Title:    c.Title,
		Chapters: make([]course.ChapterRef, 0, len(chapters)),
		Quizzes:  make([]course.QuizDef, 0, len(quizzes)),
	}
	for _, ch := range chapters {
		snap.Chapters = append(snap.Chapters, course.ChapterRef{ID: ch.ID, Title: ch.Title})
	}

	finals := 0
	for _, q := range quizzes {
		var questions []course.QuizQuestion
		if err := db.Where("quiz_id = ? AND is_deleted = ?", q.ID, false).
			Order("order_index asc").Find(&questions).Error; err != nil {
			return nil, fmt.Errorf("load questions for quiz %d: %w", q.ID, err)
		}

		def := course.QuizDef{
			ID:           q.ID,
			Title:        q.Title,
			PassingScore: q.PassingScore,
			IsFinal:      q.IsFinal,
			Questions:    make([]course.Question, 0, len(questions)),
		}
		for _, qu := range questions {
			def.Questions = append(def.Questions, course.Question{
				ID:            qu.ID,
				Prompt:        qu.Prompt,
				Options:       qu.Options,
				CorrectOption: qu.CorrectOption,
			})
		}
		if q.IsFinal {
			finals++
		}
		snap.Quizzes = append(snap.Quizzes, def)
	}
	if finals > 1 {
		return nil, fmt.Errorf("course %d defines %d final quizzes, want at most one", courseID, finals)
	}

	return snap, nil
}
