package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"coursetrack/engine"
	"coursetrack/middleware"
)

// ProgressController exposes the progress engine over HTTP. The engine
// trusts the learner id set by the auth middleware; authorization was
// already checked there.
type ProgressController struct {
	Engine *engine.Engine
}

func NewProgressController(eng *engine.Engine) *ProgressController {
	return &ProgressController{Engine: eng}
}

func learnerFromContext(c *fiber.Ctx) (uint, string, bool) {
	learnerID, ok := c.Locals("userId").(uint)
	if !ok {
		return 0, "", false
	}
	name, _ := c.Locals("userName").(string)
	return learnerID, name, true
}

func respondEngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, engine.ErrChapterNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found in this course!", nil)
	case errors.Is(err, engine.ErrQuizNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found in this course!", nil)
	case engine.IsValidation(err):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case engine.IsTransient(err):
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Progress store unavailable, please retry!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// CompleteChapter marks a chapter as completed for the learner
func (pc *ProgressController) CompleteChapter(c *fiber.Ctx) error {
	learnerID, learnerName, ok := learnerFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	chapterID := c.Locals("chapterID").(uint)

	result, err := pc.Engine.CompleteChapter(c.UserContext(), learnerID, learnerName, courseID, chapterID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter marked as completed!", result)
}

// SubmitQuiz scores a quiz submission and records the attempt
func (pc *ProgressController) SubmitQuiz(c *fiber.Ctx) error {
	learnerID, learnerName, ok := learnerFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)
	answers := c.Locals("validatedQuizAnswers").([]engine.Answer)

	result, err := pc.Engine.SubmitQuiz(c.UserContext(), learnerID, learnerName, courseID, quizID, answers)
	if err != nil {
		return respondEngineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", result)
}

// GetCourseProgress returns the learner's progress in a course
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	learnerID, _, ok := learnerFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	rec, err := pc.Engine.CourseProgress(c.UserContext(), learnerID, courseID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", rec)
}

// GetUserCertificates lists all certificates issued to the learner
func (pc *ProgressController) GetUserCertificates(c *fiber.Ctx) error {
	learnerID, _, ok := learnerFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certs, err := pc.Engine.Certificates(c.UserContext(), learnerID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certs,
		"total":        len(certs),
	})
}
