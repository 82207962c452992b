package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/tjgxx/DayZPDAServerTemplate/config"
	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/handlers"
	"github.com/tjgxx/DayZPDAServerTemplate/middleware"
	"github.com/tjgxx/DayZPDAServerTemplate/websocket"
)

func main() {
	config.Load()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	if err := database.ConnectRedis(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	websocket.InitHub()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", handlers.GetAllUsers)
		users.GET("/:id", handlers.GetUser)
		users.PUT("/me", handlers.UpdateCurrentUser)
	}

	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("/global", handlers.GetGlobalMessages)
		messages.GET("/direct", handlers.GetDirectMessages)
		messages.POST("", handlers.SendMessage)
	}

	notes := r.Group("/notes")
	notes.Use(middleware.AuthMiddleware())
	{
		notes.GET("/:userId", handlers.GetNotes)
		notes.POST("", handlers.CreateNote)
		notes.PUT("/:id", handlers.UpdateNote)
		notes.DELETE("/:id", handlers.DeleteNote)
	}

	friendRequests := r.Group("/friend-requests")
	friendRequests.Use(middleware.AuthMiddleware())
	{
		friendRequests.GET("", handlers.GetFriendRequests)
		friendRequests.POST("", handlers.SendFriendRequest)
		friendRequests.POST("/respond", handlers.RespondFriendRequest)
	}

	r.GET("/ws", websocket.HandleWebSocket)

	log.Printf("Server starting on %s", config.Cfg.ServerAddr)
	if err := r.Run(config.Cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
