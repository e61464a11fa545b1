// admin.go - privacy-conscious visitor tracking and the admin dashboard
package web

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("failed to generate token: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP for the life
// of the process)
func (s *Server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin", "/favicon", "/privacy",
	"/healthz", "/api/", "/go/", "/contact",
}

// visitorTracking records page views with a hashed IP. Static assets,
// admin pages and DNT requests are skipped.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := s.hashIP(c.ClientIP())
		ua := c.GetHeader("User-Agent")
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			if err := s.db.RecordVisit(hashed, ua, path); err != nil {
				s.log.Error("Error recording visitor", "err", err)
			}
		}()
		c.Next()
	}
}

func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// adminCredentials falls back to development defaults in debug mode only.
// Outside debug mode an unset password disables the login.
func (s *Server) adminCredentials() (string, string, bool) {
	user, pass := s.cfg.Admin.Username, s.cfg.Admin.Password
	if user == "" {
		user = "admin"
	}
	if pass == "" {
		if gin.Mode() != gin.DebugMode {
			return "", "", false
		}
		s.log.Warn("Using default admin password. Set ADMIN_PASSWORD.")
		pass = "admin123"
	}
	return user, pass, true
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": int(s.cfg.Store.Retention / (24 * time.Hour)),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		user, pass, ok := s.adminCredentials()
		if ok &&
			subtle.ConstantTimeCompare([]byte(username), []byte(user)) == 1 &&
			subtle.ConstantTimeCompare([]byte(password), []byte(pass)) == 1 {
			secure := gin.Mode() == gin.ReleaseMode
			c.SetCookie("admin_token", s.adminToken, 3600*24, "/admin", "", secure, true)
			s.log.Info("Admin login successful", "from", s.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		s.log.Warn("Failed admin login attempt", "from", s.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.db.Stats()
		if err != nil {
			s.log.Error("Error loading admin stats", "err", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.db.Stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/messages", func(c *gin.Context) {
		msgs, err := s.db.RecentMessages(200)
		if err != nil {
			s.log.Error("Error loading messages", "err", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": msgs})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		s.cleanupVisitors()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete"})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.db.Stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		s.log.Info("Admin stats exported", "by", s.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
