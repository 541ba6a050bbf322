package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lexo-ch/lexo-forms-sub000/auth"
	"github.com/lexo-ch/lexo-forms-sub000/cleverreach"
	"github.com/lexo-ch/lexo-forms-sub000/formsync"
	"github.com/lexo-ch/lexo-forms-sub000/internal/cache"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
	"github.com/lexo-ch/lexo-forms-sub000/submission"
	"github.com/lexo-ch/lexo-forms-sub000/templates"
)

// LookupAPI is the read-only slice of the remote client the admin list
// endpoints use. cleverreach.Client satisfies it.
type LookupAPI interface {
	ListGroups(ctx context.Context) ([]cleverreach.Group, error)
	ListForms(ctx context.Context) ([]cleverreach.Form, error)
	Whoami(ctx context.Context) (map[string]any, error)
}

// Caches bundles the remote lookup caches. The same bundle is handed to the
// sync engine as its invalidation hook, so any remote mutation drops both
// listings at once.
type Caches struct {
	Groups *cache.TTLCache[[]cleverreach.Group]
	Forms  *cache.TTLCache[[]cleverreach.Form]
}

func NewCaches(ttl time.Duration) *Caches {
	return &Caches{
		Groups: cache.NewTTLCache[[]cleverreach.Group](ttl),
		Forms:  cache.NewTTLCache[[]cleverreach.Form](ttl),
	}
}

func (c *Caches) InvalidateAll() {
	c.Groups.InvalidateAll()
	c.Forms.InvalidateAll()
}

// Services are the core collaborators the HTTP layer bridges to. The server
// adds no behavior of its own beyond decoding, dispatch and encoding.
type Services struct {
	Auth       *auth.Manager
	Engine     *formsync.Engine
	Submission *submission.Router
	SyncStates formsync.Repo
	Fields     templates.Registry
	Lookup     LookupAPI
	Caches     *Caches
}

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	services Services
}

func New(cfg config.Config, services Services) (*Server, error) {
	if services.Auth == nil || services.Engine == nil || services.Submission == nil {
		return nil, fmt.Errorf("[Server New] auth, engine and submission services are required")
	}
	if services.SyncStates == nil || services.Lookup == nil {
		return nil, fmt.Errorf("[Server New] sync state repo and lookup API are required")
	}
	if services.Caches == nil {
		services.Caches = NewCaches(cfg.GetLookupCacheTTL())
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		services: services,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
