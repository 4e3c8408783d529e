package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/campuspulse/campus-events-api/internal/auth"
	"github.com/campuspulse/campus-events-api/internal/config"
	"github.com/campuspulse/campus-events-api/internal/database"
	"github.com/campuspulse/campus-events-api/internal/handlers"
	"github.com/campuspulse/campus-events-api/internal/notifier"
	"github.com/campuspulse/campus-events-api/internal/participation"
	"github.com/campuspulse/campus-events-api/internal/reports"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifier
	var announcer notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			announcer = notifier.NewDiscordNotifier(session, cfg.DiscordAnnouncementsChannelID)
		}
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg)
	participationService := participation.NewService(db, announcer)
	reportService := reports.NewService(db)

	collegeHandler := handlers.NewCollegeHandler(db, authHandler)
	studentHandler := handlers.NewStudentHandler(db, authHandler)
	eventHandler := handlers.NewEventHandler(db, announcer, authHandler)
	participationHandler := handlers.NewParticipationHandler(participationService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, collegeHandler, studentHandler, eventHandler, participationHandler, reportHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
