package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"net/url"
	"strings"
	"testing"

	"github.com/manas300/portfolio/internal/config"
	"github.com/manas300/portfolio/internal/content"
	"github.com/manas300/portfolio/internal/store"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(name, email, message string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, name+"|"+email+"|"+message)
	return nil
}

func newTestServer(t *testing.T, mailer Mailer) (*Server, *store.DB) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	site, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Server.Mode = "test"
	cfg.Admin.Username = "owner"
	cfg.Admin.Password = "s3cret"

	srv, err := New(cfg, site, db, mailer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, db
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestIndexRendersEverySection(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{
		`<section id="about"`,
		`<section id="portfolio"`,
		`<section id="skills"`,
		`<section id="contact"`,
		`data-nav="skills"`,
		`UAV Swarming Research`,
		`href="/go/github"`,
		`"splashDelayMs":2500`,
		`"scrollTopThreshold":400`,
		`<meta property="og:title" content="MANAS SINGH - Building the Future">`,
		`href="https://scholar.google.com/citations?user=zchOfB4AAAAJ&amp;hl=en"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	srv.bg.Wait()
}

func TestViewOptionsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := do(srv, httptest.NewRequest(http.MethodGet, "/api/view-options", nil))

	var opts viewOptions
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(opts.Sections) != 4 || opts.Sections[0] != "about" || len(opts.Roles) != 3 {
		t.Errorf("options = %+v", opts)
	}
	if opts.RotateIntervalMs != 3000 || opts.ActiveLine != 100 || !opts.Smooth {
		t.Errorf("timings = %+v", opts)
	}
}

func TestVisitorTrackingHonoursDNT(t *testing.T) {
	srv, db := newTestServer(t, nil)

	do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	do(srv, req)
	do(srv, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	srv.bg.Wait()

	stats, err := db.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalVisitors != 1 {
		t.Fatalf("visitors = %d, want 1", stats.TotalVisitors)
	}
	if got := stats.RecentVisitors[0].HashedIP; len(got) != 16 || strings.Contains(got, "192.0.2.1") {
		t.Errorf("stored address %q is not a hash", got)
	}
}

func TestLinkRedirect(t *testing.T) {
	srv, db := newTestServer(t, nil)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/go/github", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "https://github.com/Manas300" {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}
	w = do(srv, httptest.NewRequest(http.MethodGet, "/go/email", nil))
	if w.Header().Get("Location") != "mailto:msingh23@stevens.edu" {
		t.Fatalf("mailto redirect = %q", w.Header().Get("Location"))
	}

	links, err := db.TopLinks(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Errorf("links = %+v", links)
	}

	w = do(srv, httptest.NewRequest(http.MethodGet, "/go/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown slug: %d", w.Code)
	}
}

func TestContactForm(t *testing.T) {
	mailer := &fakeMailer{}
	srv, db := newTestServer(t, mailer)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/contact-form", nil))
	if !strings.Contains(w.Body.String(), `name="fullName"`) {
		t.Fatalf("form partial: %s", w.Body.String())
	}

	w = do(srv, postForm("/contact", url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Hello there"},
	}))
	if !strings.Contains(w.Body.String(), "Thank you") {
		t.Fatalf("expected success partial, got %s", w.Body.String())
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("mails sent = %d", len(mailer.sent))
	}
	msgs, err := db.RecentMessages(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || !msgs[0].Delivered {
		t.Fatalf("messages = %+v", msgs)
	}

	w = do(srv, postForm("/contact", url.Values{
		"fullName": {"Eve\r\nBcc: x@example.com"},
		"email":    {"eve@example.com"},
		"message":  {"spam"},
	}))
	if !strings.Contains(w.Body.String(), "notice error") {
		t.Fatalf("expected error partial, got %s", w.Body.String())
	}
}

func TestContactStoredWhenMailFails(t *testing.T) {
	srv, db := newTestServer(t, &fakeMailer{err: errors.New("relay down")})
	w := do(srv, postForm("/contact", url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Hello"},
	}))
	if !strings.Contains(w.Body.String(), "Thank you") {
		t.Fatalf("expected success partial, got %s", w.Body.String())
	}
	msgs, _ := db.RecentMessages(10)
	if len(msgs) != 1 || msgs[0].Delivered {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestContactRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	form := url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi"}}

	for i := 0; i < srv.cfg.Contact.Burst; i++ {
		if w := do(srv, postForm("/contact", form)); !strings.Contains(w.Body.String(), "Thank you") {
			t.Fatalf("submission %d rejected: %s", i+1, w.Body.String())
		}
	}
	w := do(srv, postForm("/contact", form))
	if !strings.Contains(w.Body.String(), "try again in a few minutes") {
		t.Fatalf("expected rate limit partial, got %s", w.Body.String())
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name, email, msg string
		ok               bool
	}{
		{"Ada", "ada@example.com", "hi", true},
		{"", "ada@example.com", "hi", false},
		{"Ada", "not-an-email", "hi", false},
		{"Ada", "Ada <ada@example.com>", "hi", false},
		{"Ada", "ada@example.com", strings.Repeat("x", 11), false},
	}
	for _, tt := range tests {
		err := validateContact(tt.name, tt.email, tt.msg, 10)
		if (err == nil) != tt.ok {
			t.Errorf("validateContact(%q, %q) = %v", tt.name, tt.email, err)
		}
	}
}

func TestAdminFlow(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("unauthenticated dashboard: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = do(srv, postForm("/admin/login", url.Values{"username": {"owner"}, "password": {"wrong"}}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", w.Code)
	}

	w = do(srv, postForm("/admin/login", url.Values{"username": {"owner"}, "password": {"s3cret"}}))
	if w.Code != http.StatusFound {
		t.Fatalf("login: %d", w.Code)
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no admin cookie")
	}

	for _, path := range []string{"/admin/dashboard", "/admin/messages", "/admin/api/stats", "/admin/export/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		if w := do(srv, req); w.Code != http.StatusOK {
			t.Errorf("%s: %d", path, w.Code)
		}
	}
}

func TestAdminDisabledWithoutPasswordOutsideDebug(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.cfg.Admin.Password = ""
	w := do(srv, postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"admin123"}}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("default credentials accepted outside debug mode: %d", w.Code)
	}
}

func TestSMTPMailer(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{})
	if err := m.Send("a", "b@example.com", "c"); err == nil {
		t.Fatal("expected error without credentials")
	}

	var gotAddr string
	var gotMsg []byte
	m = NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: "587", User: "me@example.com", Pass: "pw"})
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		if from != "me@example.com" || len(to) != 1 || to[0] != "me@example.com" {
			t.Errorf("from=%q to=%v", from, to)
		}
		return nil
	}
	if err := m.Send("Ada", "ada@example.com", "Hello"); err != nil {
		t.Fatal(err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if !strings.Contains(string(gotMsg), "Reply-To: ada@example.com\r\n") {
		t.Errorf("message headers: %q", gotMsg)
	}
}
