// Package main is the FileKeeper client: it registers against the server,
// scans and syncs a directory, and can watch that directory continuously.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/amezhov/filekeeper/internal/client/storage"
	"github.com/amezhov/filekeeper/internal/logger"
	"github.com/amezhov/filekeeper/internal/watcher"
)

const (
	apiRegister = "/api/register"
)

var (
	version   string
	buildDate string
)

// syncOnce scans the watched directory into the manifest and pushes it.
func syncOnce(client *http.Client, baseURL, watchDir string, m *storage.Manifest) error {
	if err := storage.ScanDir(watchDir, m); err != nil {
		return err
	}
	return storage.SyncWithServer(client, baseURL, m)
}

// watch runs the polling watcher and re-syncs whenever a burst of events
// settles down to a real file.
func watch(ctx context.Context, client *http.Client, baseURL, watchDir string, m *storage.Manifest, zapLogger *zap.Logger) error {
	w := watcher.New(watchDir, time.Second, zapLogger)
	settled := watcher.Settle(ctx, w.Events(), 500*time.Millisecond)

	storage.StartAutoSync(ctx, client, baseURL, m, 30*time.Second, zapLogger)

	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			zapLogger.Error("watcher stopped", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-settled:
			if !ok {
				return nil
			}
			zapLogger.Info("change settled", zap.String("path", path))
			if err := syncOnce(client, baseURL, watchDir, m); err != nil {
				zapLogger.Error("sync after change failed", zap.Error(err))
			}
		}
	}
}

// main parses command-line flags and dispatches to the register, sync or
// watch commands.
func main() {
	var (
		cmd      string
		baseURL  string
		certFile string
		keyFile  string
		caFile   string
		loginStr string
		watchDir string
		manifest string
		showVer  bool
	)

	flag.StringVar(&cmd, "cmd", "", "command: register | sync | watch")
	flag.StringVar(&baseURL, "url", "https://localhost:8443", "server base URL")
	flag.StringVar(&certFile, "cert", "client.crt", "path to client cert")
	flag.StringVar(&keyFile, "key", "client.key", "path to client key")
	flag.StringVar(&caFile, "ca", "certs/ca.crt", "path to CA cert")
	flag.StringVar(&loginStr, "login", "", "username for registration")
	flag.StringVar(&watchDir, "dir", ".", "directory to sync")
	flag.StringVar(&manifest, "manifest", "manifest.json", "path to the local manifest")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("FileKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	switch cmd {
	case "register":
		if loginStr == "" {
			log.Fatal("please provide -login=username")
		}
		if err := storage.Register(baseURL+apiRegister, loginStr, caFile, certFile, keyFile); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Registration successful. Certificate and key saved.")
	case "sync", "watch":
		client, err := storage.LoadClientCertificate(certFile, keyFile, caFile)
		if err != nil {
			log.Fatal(err)
		}
		m := storage.NewManifest(manifest)
		if err := m.Load(); err != nil {
			log.Fatal(err)
		}

		appLog := logger.New()
		if err := appLog.Init("info"); err != nil {
			log.Fatal(err)
		}
		defer func() { _ = appLog.Log.Sync() }()

		if cmd == "sync" {
			if err := syncOnce(client, baseURL, watchDir, m); err != nil {
				log.Fatal(err)
			}
			fmt.Println("Sync successful")
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watch(ctx, client, baseURL, watchDir, m, appLog.Log); err != nil && err != context.Canceled {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown command: %s", cmd)
	}
}
