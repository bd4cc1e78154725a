package routes

import (
	"blog/internal/handlers"

	"github.com/gin-gonic/gin"
)

type PostRoutes struct {
	postHandler *handlers.PostHandler
}

func NewPostRoutes(postHandler *handlers.PostHandler) *PostRoutes {
	return &PostRoutes{postHandler: postHandler}
}

func (r *PostRoutes) RegisterRoutes(router *gin.RouterGroup) {
	posts := router.Group("/posts")
	{
		posts.GET("", r.postHandler.ListPosts)
		posts.POST("", r.postHandler.CreatePost)
		posts.GET("/search", r.postHandler.SearchPosts)
		posts.GET("/stats", r.postHandler.GetPostStats)
		posts.POST("/with-tags", r.postHandler.CreatePostWithTags)
		posts.GET("/:id", r.postHandler.GetPost)
		posts.GET("/:id/full", r.postHandler.GetPostFull)
		posts.PATCH("/:id", r.postHandler.UpdatePost)
		posts.DELETE("/:id", r.postHandler.DeletePost)
		posts.PUT("/:id/tags", r.postHandler.SetPostTags)
		posts.POST("/:id/tags/:tag_id", r.postHandler.AddPostTag)
		posts.DELETE("/:id/tags/:tag_id", r.postHandler.RemovePostTag)
	}
}
