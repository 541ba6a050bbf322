package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/robfig/cron/v3"

	"github.com/lexo-ch/lexo-forms-sub000/auth"
	"github.com/lexo-ch/lexo-forms-sub000/auth/staterepo"
	"github.com/lexo-ch/lexo-forms-sub000/cleverreach"
	"github.com/lexo-ch/lexo-forms-sub000/credentials"
	"github.com/lexo-ch/lexo-forms-sub000/email/resendsender"
	"github.com/lexo-ch/lexo-forms-sub000/formsync"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
	"github.com/lexo-ch/lexo-forms-sub000/server"
	"github.com/lexo-ch/lexo-forms-sub000/submission"
	"github.com/lexo-ch/lexo-forms-sub000/templates"
	"github.com/lexo-ch/lexo-forms-sub000/token/filerepo"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	manager, err := auth.NewManager(
		auth.Repos{
			Tokens: filerepo.NewFileTokenRepo(c.GetDataFolder()),
			States: staterepo.NewInMemoryRepo(),
		},
		credentials.NewConfigProvider(c), c,
	)
	if err != nil {
		return fmt.Errorf("auth.NewManager: %w", err)
	}

	remote := cleverreach.NewClient(c, manager)
	caches := server.NewCaches(c.GetLookupCacheTTL())
	syncStates := formsync.NewInMemoryRepo()

	engine, err := formsync.NewEngine(remote, syncStates, formsync.WithCacheInvalidator(caches))
	if err != nil {
		return fmt.Errorf("formsync.NewEngine: %w", err)
	}

	router, err := submission.NewRouter(
		submission.Repos{
			Configs: submission.NewInMemoryConfigSource(),
			States:  syncStates,
		},
		remote,
		resendsender.NewSender(c.GetResendAPIKey()),
		c,
	)
	if err != nil {
		return fmt.Errorf("submission.NewRouter: %w", err)
	}

	registry, err := templates.NewStaticRegistry(c.GetTemplatesFile())
	if err != nil {
		log.Printf("No template registry loaded: %s\n", err)
	}

	services := server.Services{
		Auth:       manager,
		Engine:     engine,
		Submission: router,
		SyncStates: syncStates,
		Lookup:     remote,
		Caches:     caches,
	}
	if registry != nil {
		services.Fields = registry
	}

	srv, err := server.New(c, services)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	scheduler := startTokenRefreshSchedule(manager)
	defer scheduler.Stop()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// startTokenRefreshSchedule keeps long-lived refresh tokens warm: once a week
// is far inside the remote side's refresh-token validity.
func startTokenRefreshSchedule(manager *auth.Manager) *cron.Cron {
	scheduler := cron.New()
	_, err := scheduler.AddFunc("@weekly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := manager.RefreshNow(ctx); err != nil {
			log.Printf("Scheduled token refresh failed: %s\n", err)
		}
	})
	if err != nil {
		log.Printf("Could not schedule token refresh: %s\n", err)
	}
	scheduler.Start()
	return scheduler
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
