package courseRoutes

import (
	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	validators "coursetrack/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing progress routes
func SetupCourseRoutes(app *fiber.App, pc *controllers.ProgressController) {
	courseGroup := app.Group("/course")

	// Chapter completion
	courseGroup.Post("/:course_id/chapter/:chapter_id/complete", middleware.JWTMiddleware, validators.CompleteChapter(), pc.CompleteChapter)

	// Quiz submission
	courseGroup.Post("/:course_id/quiz/:quiz_id/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), pc.SubmitQuiz)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), pc.GetCourseProgress)

	// Issued certificates
	userGroup := app.Group("/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, pc.GetUserCertificates)
}
