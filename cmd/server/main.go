package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/config"
	"github.com/DAVIPRADIPTA/website-anemware/internal/database"
	"github.com/DAVIPRADIPTA/website-anemware/internal/router"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/cloudinary"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/midtrans"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/predictor"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)

	var gateway midtrans.Client
	if cfg.Midtrans.ServerKey != "" {
		gateway = midtrans.NewSnapClient(&cfg.Midtrans)
	} else {
		log.Printf("[MIDTRANS] no server key configured, using stub gateway")
		gateway = &midtrans.StubClient{}
	}

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}

	var pred predictor.Predictor
	if cfg.Predictor.BaseURL != "" {
		pred = predictor.NewHTTPPredictor(&cfg.Predictor)
	} else {
		log.Printf("[PREDICTOR] no base URL configured, using stub predictor")
		pred = predictor.StubPredictor{}
	}

	engine := router.Setup(cfg, db, gateway, cloud, pred)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
