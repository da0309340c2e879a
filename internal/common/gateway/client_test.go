package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"business-console/internal/common/errors"
	"business-console/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTracker struct {
	begun, done atomic.Int32
}

func (t *countingTracker) Begin() func() {
	t.begun.Add(1)
	return func() { t.done.Add(1) }
}

func newTestClient(t *testing.T, primary, applicant string, tracker Tracker) *Client {
	t.Helper()
	bases := map[Service]string{Primary: primary}
	if applicant != "" {
		bases[Applicant] = applicant
	}
	c, err := New(Options{
		BaseURLs: bases,
		Headers:  map[string]string{"X-Api-Key": "secret", "Content-Type": "application/json"},
		Tracker:  tracker,
		Logger:   logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{BaseURLs: map[Service]string{Applicant: "http://a.local"}})
	assert.ErrorContains(t, err, "base url for primary is required")

	_, err = New(Options{BaseURLs: map[Service]string{Primary: "not a url"}})
	assert.ErrorContains(t, err, "invalid base url")
}

func TestCall_AttachesHeaders(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotKey, gotContentType string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("X-Api-Key")
		gotContentType = r.Header.Get("Content-Type")
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &gotBody)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"balance":1500}`))
	}))
	t.Cleanup(srv.Close)

	tracker := &countingTracker{}
	c := newTestClient(t, srv.URL+"/", "", tracker)

	resp, err := c.Call(context.Background(), Primary, "/businesses/7/add-balance", http.MethodPatch, map[string]int{"amount": 500})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"id":7,"balance":1500}`, string(resp.Body))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/businesses/7/add-balance", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, float64(500), gotBody["amount"])
	assert.Equal(t, int32(1), tracker.begun.Load())
	assert.Equal(t, int32(1), tracker.done.Load())

	_, err = c.Call(context.Background(), Primary, "businesses?active=yes", http.MethodGet, nil)
	require.NoError(t, err)
	assert.Equal(t, "/businesses", gotPath)
	assert.Equal(t, "active=yes", gotQuery)
}

func TestCall_GetHasNoJSONContentTypeUnlessConfigured(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURLs: map[Service]string{Primary: srv.URL}})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), Primary, "/business-users", http.MethodGet, nil)
	require.NoError(t, err)
	assert.Empty(t, gotContentType)
}

func TestCall_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"PAN already exists"}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, "", nil)
	resp, err := c.Call(context.Background(), Primary, "/businesses", http.MethodPost, map[string]string{"pan_no": "1"})
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, "PAN already exists", resp.Message())

	rejected := resp.Err("business", "")
	assert.True(t, errors.HasCode(rejected, errors.ErrCodeBackendRejected))
}

func TestCall_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html>not found</html>`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, "", nil)
	resp, err := c.Call(context.Background(), Primary, "/businesses/99", http.MethodGet, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Nil(t, resp.Body)
	assert.True(t, errors.HasCode(resp.Err("business", "99"), errors.ErrCodeNotFound))
}

func TestCall_TransportFailureIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tracker := &countingTracker{}
	c := newTestClient(t, url, "", tracker)

	resp, err := c.Call(context.Background(), Primary, "/businesses", http.MethodGet, nil)
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.IsFetchError(err))
	assert.Equal(t, tracker.begun.Load(), tracker.done.Load())
}

func TestCall_InvalidJSONOnSuccessIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, "", nil)
	_, err := c.Call(context.Background(), Primary, "/businesses", http.MethodGet, nil)
	assert.True(t, errors.IsFetchError(err))
}

func TestCall_RoutesToApplicantService(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("primary should not be called, got %s", r.URL.Path)
	}))
	t.Cleanup(primary.Close)

	var hit bool
	applicant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		_, _ = w.Write([]byte(`{"applicants":[],"total":0}`))
	}))
	t.Cleanup(applicant.Close)

	c := newTestClient(t, primary.URL, applicant.URL, nil)
	_, err := c.Call(context.Background(), Applicant, "/applicants", http.MethodGet, nil)
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = c.Call(context.Background(), Service("unknown"), "/x", http.MethodGet, nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}

func TestUpload_SendsMultipartImage(t *testing.T) {
	var field, filename, content, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		f, hdr, err := r.FormFile("image")
		if err == nil {
			defer f.Close()
			field = "image"
			filename = hdr.Filename
			data, _ := io.ReadAll(f)
			content = string(data)
		}
		_, _ = w.Write([]byte(`{"id":3,"pan_image":"pan.png"}`))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, "", nil)
	resp, err := c.Upload(context.Background(), Primary, "/businesses/upload/3/pan", "image", "pan.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "image", field)
	assert.Equal(t, "pan.png", filename)
	assert.Equal(t, "PNGDATA", content)
}

func TestResponse_Decode(t *testing.T) {
	r := &Response{Status: 200, Body: json.RawMessage(`{"id":42}`)}
	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, r.Decode(&out))
	assert.Equal(t, 42, out.ID)

	empty := &Response{Status: 204}
	assert.Error(t, empty.Decode(&out))
	assert.Equal(t, "", empty.Message())
}
