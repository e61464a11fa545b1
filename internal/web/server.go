// Package web serves the portfolio page, its contact form, outbound link
// redirects and the admin dashboard over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/manas300/portfolio/internal/config"
	"github.com/manas300/portfolio/internal/content"
	"github.com/manas300/portfolio/internal/logging"
	"github.com/manas300/portfolio/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Server is the HTTP front of the portfolio.
type Server struct {
	cfg    *config.Config
	site   *content.Site
	db     *store.DB
	mailer Mailer
	log    *log.Logger

	engine  *gin.Engine
	page    *pageData
	limiter *visitorLimiter

	adminToken string
	salt       string

	// bg tracks fire-and-forget writes.
	bg sync.WaitGroup
}

// New wires routes for site. mailer may be nil, in which case contact
// messages are only stored.
func New(cfg *config.Config, site *content.Site, db *store.DB, mailer Mailer) (*Server, error) {
	if cfg == nil || site == nil || db == nil {
		return nil, errors.New("web: config, site and store are required")
	}
	gin.SetMode(cfg.Server.Mode)

	page, err := buildPage(cfg, site)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		site:       site,
		db:         db,
		mailer:     mailer,
		log:        logging.WithPrefix("web"),
		page:       page,
		limiter:    newVisitorLimiter(cfg.Contact.PerMinute, cfg.Contact.Burst),
		adminToken: generateToken(),
		salt:       generateToken(),
	}

	if err := s.setupEngine(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupEngine() error {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if err := r.SetTrustedProxies(s.cfg.Server.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", "./images")

	r.Use(s.visitorTracking())

	r.GET("/", s.handleIndex)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/content", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.site)
	})
	r.GET("/api/view-options", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.page.View)
	})
	r.GET("/go/:slug", s.handleLink)
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":      "Contact Me",
			"maxMessage": s.cfg.Contact.MaxMessage,
		})
	})
	r.POST("/contact", s.handleContact)

	s.setupAdminRoutes(r)
	s.engine = r
	return nil
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.engine
}

func (s *Server) handleIndex(c *gin.Context) {
	data := *s.page
	data.Year = time.Now().Year()
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) handleLink(c *gin.Context) {
	link, ok := s.site.LinkBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		return
	}
	if err := s.db.RecordClick(link.Slug, link.URL); err != nil {
		s.log.Error("Error recording click", "slug", link.Slug, "err", err)
	}
	c.Redirect(http.StatusFound, link.URL)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx, 24*time.Hour)

	errc := make(chan error, 1)
	go func() {
		s.log.Info("Listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.bg.Wait()
	s.log.Info("Server stopped")
	return err
}

// cleanupLoop enforces visitor retention now and then every interval.
func (s *Server) cleanupLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		s.cleanupVisitors()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (s *Server) cleanupVisitors() {
	n, err := s.db.Cleanup(s.cfg.Store.Retention)
	if err != nil {
		s.log.Error("Error cleaning up old visitor data", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("Privacy cleanup", "removed", n)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	l := logging.WithPrefix("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug(c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}
