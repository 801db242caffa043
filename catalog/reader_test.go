package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coursetrack/engine"
	"coursetrack/models/course"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&course.Course{},
		&course.Chapter{},
		&course.Quiz{},
		&course.QuizQuestion{},
	))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB) uint {
	t.Helper()

	c := course.Course{Title: "Foundations", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&c).Error)

	// Inserted out of order on purpose; the snapshot must sort them.
	require.NoError(t, db.Create(&course.Chapter{CourseID: c.ID, Title: "Practice", OrderIndex: 2}).Error)
	require.NoError(t, db.Create(&course.Chapter{CourseID: c.ID, Title: "Basics", OrderIndex: 1}).Error)

	quiz := course.Quiz{CourseID: c.ID, Title: "Final", PassingScore: 80, IsFinal: true}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Create(&course.QuizQuestion{
		QuizID:        quiz.ID,
		Prompt:        "Second?",
		Options:       datatypes.NewJSONSlice([]string{"a", "b"}),
		CorrectOption: 1,
		OrderIndex:    2,
	}).Error)
	require.NoError(t, db.Create(&course.QuizQuestion{
		QuizID:        quiz.ID,
		Prompt:        "First?",
		Options:       datatypes.NewJSONSlice([]string{"a", "b", "c"}),
		CorrectOption: 0,
		OrderIndex:    1,
	}).Error)

	return c.ID
}

func TestGetCourseSnapshot(t *testing.T) {
	db := openTestDB(t)
	courseID := seedCourse(t, db)
	reader := NewReader(db)

	snap, err := reader.GetCourseSnapshot(context.Background(), courseID)
	require.NoError(t, err)

	assert.Equal(t, courseID, snap.CourseID)
	assert.Equal(t, "Foundations", snap.Title)

	require.Len(t, snap.Chapters, 2)
	assert.Equal(t, "Basics", snap.Chapters[0].Title)
	assert.Equal(t, "Practice", snap.Chapters[1].Title)

	require.Len(t, snap.Quizzes, 1)
	quiz := snap.Quizzes[0]
	assert.Equal(t, 80, quiz.PassingScore)
	assert.True(t, quiz.IsFinal)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "First?", quiz.Questions[0].Prompt)
	assert.Equal(t, []string{"a", "b", "c"}, quiz.Questions[0].Options)
	assert.Equal(t, 1, quiz.Questions[1].CorrectOption)
}

func TestGetCourseSnapshotNotFound(t *testing.T) {
	db := openTestDB(t)
	reader := NewReader(db)

	_, err := reader.GetCourseSnapshot(context.Background(), 999)
	assert.ErrorIs(t, err, engine.ErrCourseNotFound)
}

func TestGetCourseSnapshotSkipsDeleted(t *testing.T) {
	db := openTestDB(t)
	courseID := seedCourse(t, db)
	reader := NewReader(db)

	require.NoError(t, db.Model(&course.Course{}).Where("id = ?", courseID).Update("is_deleted", true).Error)

	_, err := reader.GetCourseSnapshot(context.Background(), courseID)
	assert.ErrorIs(t, err, engine.ErrCourseNotFound)
}

func TestGetCourseSnapshotRejectsTwoFinals(t *testing.T) {
	db := openTestDB(t)
	courseID := seedCourse(t, db)
	reader := NewReader(db)

	require.NoError(t, db.Create(&course.Quiz{CourseID: courseID, Title: "Another Final", PassingScore: 50, IsFinal: true}).Error)

	_, err := reader.GetCourseSnapshot(context.Background(), courseID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, engine.ErrCourseNotFound)
}
