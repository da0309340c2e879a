package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	Path   string
	Query  string
	Method string
	Key    string
	Cookie string
}

func backend(t *testing.T) (*httptest.Server, *[]seen) {
	var calls []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, seen{
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Method: r.Method,
			Key:    r.Header.Get("X-Api-Key"),
			Cookie: r.Header.Get("Cookie"),
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"businesses":[],"total":0}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// serve runs the engine behind a real listener. ReverseProxy needs a
// writer with CloseNotify, which ResponseRecorder lacks.
func serve(t *testing.T, r *gin.Engine) *httptest.Server {
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func engine(t *testing.T, primary, applicant string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	p, err := New([]Route{
		{Prefix: "/api/v1", BaseURL: primary},
		{Prefix: "/api/v1-baa", BaseURL: applicant},
	}, map[string]string{"X-Api-Key": "k-123"}, nil)
	require.NoError(t, err)

	r := gin.New()
	p.Register(r)
	return r
}

func TestProxy_RoutesAndInjectsHeaders(t *testing.T) {
	primary, primaryCalls := backend(t)
	applicant, applicantCalls := backend(t)
	srv := serve(t, engine(t, primary.URL+"/v2", applicant.URL))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/businesses?name=acme", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: "abc"})
	status, _ := send(t, req)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, *primaryCalls, 1)
	got := (*primaryCalls)[0]
	assert.Equal(t, "/v2/businesses", got.Path)
	assert.Equal(t, "name=acme", got.Query)
	assert.Equal(t, "k-123", got.Key)
	assert.Empty(t, got.Cookie)

	req, err = http.NewRequest(http.MethodPatch, srv.URL+"/api/v1-baa/applicants/4/change-remarks", nil)
	require.NoError(t, err)
	status, _ = send(t, req)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, *applicantCalls, 1)
	assert.Equal(t, "/applicants/4/change-remarks", (*applicantCalls)[0].Path)
	assert.Equal(t, http.MethodPatch, (*applicantCalls)[0].Method)
}

func TestProxy_TransportFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	srv := serve(t, engine(t, dead.URL, dead.URL))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/businesses", nil)
	require.NoError(t, err)
	status, raw := send(t, req)

	assert.Equal(t, http.StatusBadGateway, status)
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Fetch Error", body["message"])
}

func TestNew_InvalidTarget(t *testing.T) {
	_, err := New([]Route{{Prefix: "/api/v1", BaseURL: "not a url"}}, nil, nil)
	assert.Error(t, err)
}
