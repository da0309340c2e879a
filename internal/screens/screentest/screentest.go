// Package screentest runs screen handlers against a fake backend.
package screentest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"business-console/internal/common/config"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/notify"
	"business-console/internal/onboarding"
	"business-console/internal/screens/base"
	"business-console/internal/view"
	"business-console/pkg/registry"
)

// Call is one request the fake backend received.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
	Raw    []byte
}

type reply struct {
	status int
	body   string
}

// Backend serves canned replies. The primary service lives under /api and
// the applicant service under /baa; unknown routes answer 404.
type Backend struct {
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]reply
	calls  []Call
}

func NewBackend(t testing.TB) *Backend {
	b := &Backend{routes: map[string]reply{}}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

// On registers the reply for method and path, where path starts with /api
// or /baa and carries no query.
func (b *Backend) On(method, path string, status int, body string) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = reply{status: status, body: body}
	return b
}

func (b *Backend) PrimaryURL() string   { return b.srv.URL + "/api" }
func (b *Backend) ApplicantURL() string { return b.srv.URL + "/baa" }

// Close stops the server so later calls fail at the transport.
func (b *Backend) Close() {
	b.srv.Close()
}

// Calls returns the requests received for method and path.
func (b *Backend) Calls(method, path string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// All returns every request received.
func (b *Backend) All() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	call := Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Raw: raw}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") && len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}

	b.mu.Lock()
	b.calls = append(b.calls, call)
	rep, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
		return
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

// RegistryPath locates the shipped resource registry.
func RegistryPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "configs", "resource-registry.json")
}

// Config returns a minimal configuration pointing at b.
func Config(b *Backend) *config.Config {
	cfg := &config.Config{}
	cfg.Backend.PrimaryURL = b.PrimaryURL()
	cfg.Backend.ApplicantURL = b.ApplicantURL()
	cfg.Vocabulary = config.VocabularyConfig{
		Statuses:     []string{"All", "Active", "Inactive"},
		Roles:        []string{"SuperAdmin", "Admin"},
		Genders:      []string{"male", "female", "other"},
		ServiceTypes: []string{"All", "Topup", "Electricity", "Internet"},
	}
	cfg.Display.Timezone = "UTC"
	cfg.Display.ReferenceServiceURL = "http://reference.test/completed"
	cfg.Onboarding.PlaceholderAddress = "lalitpur"
	cfg.Onboarding.PlaceholderDomain = "placeholder.invalid"
	return cfg
}

// Deps wires the real gateway, mutations and onboarding against b.
func Deps(t testing.TB, b *Backend) *base.Deps {
	t.Helper()
	cfg := Config(b)
	log := logger.NewTestLogger(t)

	gw, err := gateway.NewFromConfig(cfg.Backend, nil, log)
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(RegistryPath())
	require.NoError(t, err)

	orch, err := onboarding.New(onboarding.Options{
		Gateway:      gw,
		Placeholders: onboarding.NewRandomPlaceholders(cfg.Onboarding.PlaceholderAddress, cfg.Onboarding.PlaceholderDomain),
		Logger:       log,
	})
	require.NoError(t, err)

	d := &base.Deps{Config: cfg, Gateway: gw, Onboarding: orch, Registry: reg, Logger: log}
	require.NoError(t, d.Validate())
	return d
}

// Browser drives an engine and keeps the session cookie between requests.
type Browser struct {
	Engine  *gin.Engine
	cookies map[string]*http.Cookie
}

// NewBrowser builds an engine with the view renderer and notifications, then
// lets register mount the screen under test.
func NewBrowser(t testing.TB, register func(r gin.IRouter)) *Browser {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := view.New(view.Options{Location: time.UTC})
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = renderer
	engine.Use(notify.Middleware(notify.NewMemoryStore(time.Minute), nil))
	register(engine)

	return Wrap(engine)
}

// Wrap drives an engine that is already fully assembled.
func Wrap(engine *gin.Engine) *Browser {
	return &Browser{Engine: engine, cookies: map[string]*http.Cookie{}}
}

func (b *Browser) Get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// Post submits form as application/x-www-form-urlencoded.
func (b *Browser) Post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// PostMultipart submits a prepared multipart body.
func (b *Browser) PostMultipart(path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return b.do(req)
}

// Follow requests the redirect target of w.
func (b *Browser) Follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	return b.Get(w.Header().Get("Location"))
}

func (b *Browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.Engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}
