package courseValidator

import (
	"coursetrack/engine"
	"coursetrack/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// QuizSubmission is the validated SubmitQuiz request body.
type QuizSubmission struct {
	Answers []struct {
		QuestionID  uint `json:"question_id" validate:"required"`
		AnswerIndex *int `json:"answer_index" validate:"required,min=0"`
	} `json:"answers" validate:"required,min=1,dive"`
}

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// CompleteChapter validates the chapter completion request
func CompleteChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		chapterID, ok := parseIDParam(c, "chapter_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Chapter ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("chapterID", chapterID)
		return c.Next()
	}
}

// SubmitQuiz validates the quiz submission request
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		quizID, ok := parseIDParam(c, "quiz_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(QuizSubmission)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			if fieldErrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range fieldErrs {
					errors[fe.Namespace()] = "failed on " + fe.Tag()
				}
			} else {
				errors["answers"] = "invalid submission"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		answers := make([]engine.Answer, 0, len(reqData.Answers))
		for _, a := range reqData.Answers {
			answers = append(answers, engine.Answer{
				QuestionID:  a.QuestionID,
				AnswerIndex: *a.AnswerIndex,
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("quizID", quizID)
		c.Locals("validatedQuizAnswers", answers)
		return c.Next()
	}
}

// GetCourseProgress validates the progress request
func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
