package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/handlers"
	"blog/internal/integrity"
	"blog/internal/migrate"
	"blog/internal/migrations"
	"blog/internal/repositories"
	"blog/internal/routes"
	"blog/internal/services"
)

// NewServer connects to the database, brings the schema up to date and
// wires every layer together. Startup failures are fatal: the API never
// serves against a half-migrated schema.
func NewServer() *http.Server {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	runner, err := migrate.NewRunner(pool, migrations.All())
	if err != nil {
		log.Fatalf("invalid migration set: %v", err)
	}
	n, err := runner.Apply(ctx, "")
	if err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	if n > 0 {
		log.Printf("Applied %d migration(s)", n)
	}

	enforcer := integrity.NewEnforcer(runner.Model())

	// Dependency injection
	userRepo := repositories.NewUserRepository(pool)
	postRepo := repositories.NewPostRepository(pool)
	commentRepo := repositories.NewCommentRepository(pool)
	tagRepo := repositories.NewTagRepository(pool)
	postTagRepo := repositories.NewPostTagRepository(pool)

	userService := services.NewUserService(pool, enforcer, userRepo, postRepo, commentRepo)
	postService := services.NewPostService(pool, enforcer, postRepo, userRepo, commentRepo, tagRepo, postTagRepo)
	commentService := services.NewCommentService(pool, enforcer, commentRepo, postRepo)
	tagService := services.NewTagService(pool, enforcer, tagRepo, postTagRepo)

	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	commentHandler := handlers.NewCommentHandler(commentService)
	tagHandler := handlers.NewTagHandler(tagService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())
	routes.RegisterRoutes(router, userHandler, postHandler, commentHandler, tagHandler)

	// Create and configure the HTTP server
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
