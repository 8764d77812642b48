package routes

import (
	"mindful-backend/handlers/posts"
	"mindful-backend/handlers/posts/comments"
	"mindful-backend/handlers/posts/votes"
	"mindful-backend/middleware"

	"github.com/gin-gonic/gin"
)

func PostsRoutes(r *gin.RouterGroup) {
	// public
	r.GET("/posts", posts.GetAllPosts)
	r.GET("/posts/search", posts.SearchPosts)
	r.GET("/posts/:id", posts.GetPostByID)
	r.GET("/posts/:id/comments", comments.GetComments)

	postsRoutes := r.Group("/posts")
	postsRoutes.Use(middleware.JWTAuth())
	{
		postsRoutes.GET("/my", posts.GetMyPosts)
		postsRoutes.POST("", posts.CreatePost)
		postsRoutes.POST("/suggestions", posts.GetSuggestions)
		postsRoutes.DELETE("/:id", posts.DeletePost)

		postsRoutes.POST("/:id/comments", comments.CreateComment)
		postsRoutes.POST("/:id/vote", votes.VotePost)
		postsRoutes.GET("/:id/vote", votes.GetMyVote)
	}
}
