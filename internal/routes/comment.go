package routes

import (
	"blog/internal/handlers"

	"github.com/gin-gonic/gin"
)

type CommentRoutes struct {
	commentHandler *handlers.CommentHandler
}

func NewCommentRoutes(commentHandler *handlers.CommentHandler) *CommentRoutes {
	return &CommentRoutes{commentHandler: commentHandler}
}

func (r *CommentRoutes) RegisterRoutes(router *gin.RouterGroup) {
	// Creation and listing hang off the parent post.
	posts := router.Group("/posts")
	{
		posts.GET("/:id/comments", r.commentHandler.ListPostComments)
		posts.POST("/:id/comments", r.commentHandler.CreateComment)
	}

	comments := router.Group("/comments")
	{
		comments.GET("/:id", r.commentHandler.GetComment)
		comments.PATCH("/:id", r.commentHandler.UpdateComment)
		comments.DELETE("/:id", r.commentHandler.DeleteComment)
	}
}
