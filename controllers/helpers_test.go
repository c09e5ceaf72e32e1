// file: controllers/helpers_test.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"fashion-registration/middleware"
	"fashion-registration/services"
)

const testSessionName = "testsession"

// setupTestRouter creates a new Gin engine with session middleware and fake HTML templates.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions(testSessionName, store))

	// Create minimal templates to avoid panics during testing.
	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))
	return router
}

// setupRegistrationRouter wires every registration route against a fresh registry.
func setupRegistrationRouter(t *testing.T, extended bool, metrics services.MetricsPublisher) (*gin.Engine, *services.FlowRegistry) {
	t.Helper()
	router := setupTestRouter(t)

	schema := services.NewSchema(extended)
	flows := services.NewFlowRegistry(func() *services.PageFlow {
		return services.NewPageFlow(schema, nil)
	})
	rc := NewRegistrationController(flows, metrics)

	router.GET("/", Landing)
	reg := router.Group("/registration", middleware.VisitorRequired)
	{
		reg.GET("", rc.ShowRegistration)
		reg.POST("", rc.SubmitRegistration)
		reg.POST("/field", rc.UpdateField)
		reg.POST("/reset", rc.ResetRegistration)
		reg.GET("/live", rc.LiveForm)
	}
	return router, flows
}

// createDummyTemplates writes a set of minimal HTML templates to the provided directory.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"landing.html":      `<html><body>{{.Event.Title}} {{.Event.Year}} {{.RegistrationURL}}</body></html>`,
		"registration.html": `<html><body>form group={{.VisibleGroup}} extended={{.Extended}} {{range $k, $v := .Errors}}err:{{$k}}={{$v}};{{end}}{{range .Toasts}}toast:{{.Title}}{{end}}</body></html>`,
		"success.html":      `<html><body>success {{range .Toasts}}toast:{{.Title}}|{{.Description}}{{end}}</body></html>`,
	}

	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// client replays the session cookie across requests like a browser would.
type client struct {
	router  *gin.Engine
	session *http.Cookie
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	if cl.session != nil {
		req.AddCookie(cl.session)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testSessionName {
			cl.session = ck
		}
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	return cl.do(req)
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postJSON(path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

func validGuestForm() url.Values {
	return url.Values{
		"fullName":        {"Ivan Ivanov"},
		"email":           {"a@b.com"},
		"phone":           {"1234567890"},
		"participantType": {"guest"},
		"interests":       {"high-fashion"},
	}
}
