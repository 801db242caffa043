package course

// Snapshot is an immutable view of a course's structure, read once per
// operation. It is built at the storage boundary and never mutated.
type Snapshot struct {
	CourseID uint         `json:"course_id"`
	Title    string       `json:"title"`
	Chapters []ChapterRef `json:"chapters"`
	Quizzes  []QuizDef    `json:"quizzes"`
}

// ChapterRef identifies one chapter within a snapshot, in course order.
type ChapterRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// QuizDef is the scoring-relevant definition of a quiz.
type QuizDef struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	PassingScore int        `json:"passing_score"`
	IsFinal      bool       `json:"is_final"`
	Questions    []Question `json:"questions"`
}

// Question is one multiple-choice question with its answer key.
type Question struct {
	ID            uint     `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// HasChapter reports whether the snapshot contains the given chapter.
func (s *Snapshot) HasChapter(chapterID uint) bool {
	for _, ch := range s.Chapters {
		if ch.ID == chapterID {
			return true
		}
	}
	return false
}

// QuizByID returns the quiz definition for the given id, if present.
func (s *Snapshot) QuizByID(quizID uint) (QuizDef, bool) {
	for _, q := range s.Quizzes {
		if q.ID == quizID {
			return q, true
		}
	}
	return QuizDef{}, false
}

// TotalItems is the number of progress-bearing items (chapters + quizzes).
func (s *Snapshot) TotalItems() int {
	return len(s.Chapters) + len(s.Quizzes)
}
