package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventhub-backend/internal/controllers"
	"eventhub-backend/internal/middleware"
	"eventhub-backend/internal/service"
	"eventhub-backend/internal/token"
)

func SetupRoutes(r *gin.Engine, api *controllers.API, tokens *token.Manager, access *service.Access, log zerolog.Logger) {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	r.POST("/auth/register", api.Register)
	r.POST("/auth/login", api.Login)

	r.GET("/users/:uid", api.GetUser)

	r.GET("/events", api.ListEvents)
	r.GET("/events/upcoming", api.UpcomingEvents)
	r.GET("/events/past", api.PastEvents)
	r.GET("/events/search", api.SearchEvents)
	r.GET("/events/creator/:uid", api.EventsByCreator)
	r.GET("/events/:id", api.GetEvent)
	r.GET("/events/:id/share", api.ShareEvent)
	r.GET("/events/:id/comments", api.ListComments)
	r.GET("/events/:id/rating", api.EventRating)
	r.GET("/events/:id/attendees/count", api.AttendeeCount)

	r.GET("/attend/:eventId/attendees", api.ListAttendees)
	r.GET("/attend/:eventId/status/:uid", api.AttendanceStatus)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.Auth(tokens, log))
	{
		authorized.PUT("/users/:uid", api.UpdateUser)
		authorized.PUT("/users/:uid/password", api.ChangePassword)

		authorized.POST("/events", api.CreateEvent)
		authorized.PUT("/events/:id", api.UpdateEvent)
		authorized.DELETE("/events/:id", api.DeleteEvent)

		authorized.POST("/events/:id/comments", api.AddComment)
		authorized.PUT("/events/:id/comments/:commentId", api.UpdateComment)
		authorized.DELETE("/events/:id/comments/:commentId", api.DeleteComment)

		authorized.POST("/attend/:eventId/confirm", api.ConfirmAttendance)
		authorized.POST("/attend/:eventId/cancel", api.CancelAttendance)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.Auth(tokens, log), middleware.RequireAdmin(access))
	{
		admin.GET("/users", api.ListUsers)
		admin.POST("/users/:uid/make-admin", api.MakeAdmin)
	}
}
