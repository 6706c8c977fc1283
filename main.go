package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventhub-backend/internal/config"
	"eventhub-backend/internal/controllers"
	"eventhub-backend/internal/middleware"
	"eventhub-backend/internal/routes"
	"eventhub-backend/internal/service"
	"eventhub-backend/internal/store"
	"eventhub-backend/internal/token"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), store.PingTimeout)
	defer cancel()
	db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to document store")
	}
	defer db.Close(context.Background())
	log.Info().Str("db", cfg.MongoDB).Msg("connected to document store")

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	access := service.NewAccess(db)
	identity := service.NewIdentity(db, tokens, access, log)
	events := service.NewEvents(db, access, cfg.ShareBaseURL, log)
	attendance := service.NewAttendance(db, log)
	api := controllers.NewAPI(identity, events, attendance, log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.SetupRoutes(r, api, tokens, access, log)

	log.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
