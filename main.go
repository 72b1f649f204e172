package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/auth"
	"github.com/jihunparkme/aymc-high-school-class/internal/platform/db"
	"github.com/jihunparkme/aymc-high-school-class/internal/records"
	"github.com/jihunparkme/aymc-high-school-class/internal/reports"
	"github.com/jihunparkme/aymc-high-school-class/internal/roster"
	"github.com/jihunparkme/aymc-high-school-class/internal/snapshot"
)

func main() {
	// 설정 읽기
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		log.Fatal("config mode must be dev or release")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	authSvc := auth.NewService(conn, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	if err := authSvc.EnsureAdmin(context.Background(), cfg.Auth.AdminID, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("admin bootstrap failed: %v", err)
	}

	rosterSvc := roster.NewService(conn)
	recordsSvc := records.NewService(conn)
	reportsSvc := reports.NewService(rosterSvc, recordsSvc)
	snapshotSvc := snapshot.NewService(rosterSvc, recordsSvc, snapshot.NewStore(conn))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS (개발 중에만 필요)
		origins := cfg.CORS.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// 헬스
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /api/v1: 조회는 공개, 변경은 관리자 토큰 필요
	api := r.Group("/api/v1")
	admin := api.Group("")
	admin.Use(auth.RequireAuth(authSvc.Secret()))

	auth.RegisterRoutes(api, authSvc)
	roster.RegisterRoutes(api, admin, rosterSvc)
	records.RegisterRoutes(api, admin, recordsSvc)
	reports.RegisterRoutes(api, reportsSvc)
	snapshot.RegisterRoutes(api, admin, snapshotSvc)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.Server.Cert != "" && cfg.Server.Key != "" {
			log.Printf("[INFO] listening on https://%s", addr)
			err = srv.ListenAndServeTLS(cfg.Server.Cert, cfg.Server.Key)
		} else {
			log.Printf("[INFO] listening on http://%s", addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
