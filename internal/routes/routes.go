package routes

import (
	"net/http"

	"blog/internal/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, userHandler *handlers.UserHandler, postHandler *handlers.PostHandler, commentHandler *handlers.CommentHandler, tagHandler *handlers.TagHandler) {
	api := router.Group("/api/v1")

	userRoutes := NewUserRoutes(userHandler)
	userRoutes.RegisterRoutes(api)

	postRoutes := NewPostRoutes(postHandler)
	postRoutes.RegisterRoutes(api)

	commentRoutes := NewCommentRoutes(commentHandler)
	commentRoutes.RegisterRoutes(api)

	tagRoutes := NewTagRoutes(tagHandler)
	tagRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
