// Package main initializes and starts the FileKeeper HTTPS server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and TLS.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/amezhov/filekeeper/internal/certgen"
	"github.com/amezhov/filekeeper/internal/config"
	"github.com/amezhov/filekeeper/internal/db"
	"github.com/amezhov/filekeeper/internal/logger"
	"github.com/amezhov/filekeeper/internal/repository"
	"github.com/amezhov/filekeeper/internal/server/handler/http"
	"github.com/amezhov/filekeeper/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN
	certDir := options.CertDir

	// Print build metadata (or "N/A" if unset).
	buildVersion := version
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	buildTimestamp := buildDate
	if buildTimestamp == "" {
		buildTimestamp = "N/A"
	}
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildTimestamp)

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Prune soft-deleted file records in the background.
	db.StartSoftDeleteCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories for authentication and synchronization.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	fileRepo := repository.NewPostgresFileRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	syncService := service.NewSyncService(fileRepo)

	// Load the CA used to issue and verify client certificates.
	ca, err := certgen.LoadCACredentials(
		filepath.Join(certDir, "ca.crt"),
		filepath.Join(certDir, "ca.key"),
	)
	if err != nil {
		zapLogger.Fatal("failed to load CA credentials", zap.Error(err))
	}

	// Create HTTP handlers for auth and sync endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, CA: ca}
	syncHandler := &http.SyncHandler{SyncService: syncService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, syncHandler, zapLogger)

	// Load server TLS certificate and key.
	cert, err := tls.LoadX509KeyPair(
		filepath.Join(certDir, "server.crt"),
		filepath.Join(certDir, "server.key"),
	)
	if err != nil {
		zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
	}

	// Append the CA certificate for client cert verification.
	caCert, err := os.ReadFile(filepath.Join(certDir, "ca.crt"))
	if err != nil {
		zapLogger.Fatal("failed to read CA cert", zap.Error(err))
	}
	caCertPool := x509.NewCertPool()
	if ok := caCertPool.AppendCertsFromPEM(caCert); !ok {
		zapLogger.Fatal("failed to append CA cert to pool")
	}

	// Configure TLS to verify client certificates when presented.
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.VerifyClientCertIfGiven,
		ClientCAs:    caCertPool,
		MinVersion:   tls.VersionTLS12,
	}

	// Create and start the HTTPS server.
	server := &nethttp.Server{
		Addr:      addr,
		Handler:   router,
		TLSConfig: tlsConfig,
	}

	zapLogger.Info("starting HTTPS server", zap.String("addr", addr))
	if err := server.ListenAndServeTLS("", ""); err != nil {
		zapLogger.Fatal("failed to start HTTPS server", zap.Error(err))
	}
}
