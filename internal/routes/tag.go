package routes

import (
	"blog/internal/handlers"

	"github.com/gin-gonic/gin"
)

type TagRoutes struct {
	tagHandler *handlers.TagHandler
}

func NewTagRoutes(tagHandler *handlers.TagHandler) *TagRoutes {
	return &TagRoutes{tagHandler: tagHandler}
}

func (r *TagRoutes) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", r.tagHandler.ListTags)
		tags.POST("", r.tagHandler.CreateTag)
		tags.GET("/:slug", r.tagHandler.GetTag)
		tags.DELETE("/:slug", r.tagHandler.DeleteTag)
		tags.GET("/:slug/posts", r.tagHandler.GetTagPosts)
	}
}
