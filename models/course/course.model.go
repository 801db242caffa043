package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course in the catalog
type Course struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Status      string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// Chapter represents an ordered content unit within a course that a
// learner marks complete
type Chapter struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"` // Chapter order in course
	IsDeleted  bool   `gorm:"default:false"`
}

// Quiz represents a multiple-choice quiz attached to a course
type Quiz struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score" gorm:"default:0"` // 0-100
	IsFinal      bool   `json:"is_final" gorm:"default:false"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// QuizQuestion represents a single question within a quiz
type QuizQuestion struct {
	gorm.Model
	QuizID        uint                        `json:"quiz_id" gorm:"index;not null"`
	Prompt        string                      `json:"prompt"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectOption int                         `json:"-" gorm:"default:0"` // index into Options, never sent to learners
	OrderIndex    int                         `json:"order_index" gorm:"default:0"`
	IsDeleted     bool                        `gorm:"default:false"`
}
