package engine

import (
	"math"

	"coursetrack/models/course"
)

// Answer is one submitted (question, selected option) pair.
type Answer struct {
	QuestionID  uint `json:"question_id"`
	AnswerIndex int  `json:"answer_index"`
}

// QuestionFeedback reports per-question correctness after scoring.
type QuestionFeedback struct {
	QuestionID    uint `json:"question_id"`
	IsCorrect     bool `json:"is_correct"`
	CorrectOption int  `json:"correct_option"`
}

// ScoreResult is the outcome of scoring one submission.
type ScoreResult struct {
	Score          int                `json:"score"`
	CorrectCount   int                `json:"correct_count"`
	TotalQuestions int                `json:"total_questions"`
	Passed         bool               `json:"passed"`
	PerQuestion    []QuestionFeedback `json:"per_question_feedback"`
}

// Score grades a submission against a quiz definition. It requires
// exactly one answer per defined question and rejects the whole
// submission otherwise; there is no partial scoring. Pure and
// deterministic.
func Score(quiz course.QuizDef, answers []Answer) (ScoreResult, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return ScoreResult{}, validationf("quiz %d has no questions", quiz.ID)
	}
	if len(answers) != total {
		return ScoreResult{}, validationf("expected %d answers, got %d", total, len(answers))
	}

	byQuestion := make(map[uint]Answer, len(answers))
	for _, a := range answers {
		if _, dup := byQuestion[a.QuestionID]; dup {
			return ScoreResult{}, validationf("duplicate answer for question %d", a.QuestionID)
		}
		byQuestion[a.QuestionID] = a
	}

	result := ScoreResult{
		TotalQuestions: total,
		PerQuestion:    make([]QuestionFeedback, 0, total),
	}
	for _, q := range quiz.Questions {
		ans, ok := byQuestion[q.ID]
		if !ok {
			return ScoreResult{}, validationf("missing answer for question %d", q.ID)
		}
		if ans.AnswerIndex < 0 || ans.AnswerIndex >= len(q.Options) {
			return ScoreResult{}, validationf("answer index %d out of range for question %d", ans.AnswerIndex, q.ID)
		}
		correct := ans.AnswerIndex == q.CorrectOption
		if correct {
			result.CorrectCount++
		}
		result.PerQuestion = append(result.PerQuestion, QuestionFeedback{
			QuestionID:    q.ID,
			IsCorrect:     correct,
			CorrectOption: q.CorrectOption,
		})
	}

	// Half-up rounding: 3 of 4 correct scores 75, 1 of 3 scores 33.
	result.Score = int(math.Round(100 * float64(result.CorrectCount) / float64(total)))
	result.Passed = result.Score >= quiz.PassingScore
	return result, nil
}
