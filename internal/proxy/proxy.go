// Package proxy exposes the backend APIs under the console's own origin so
// browser scripts never need the backend headers.
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"business-console/internal/common/logger"
)

// Route maps a public prefix onto a backend base URL.
type Route struct {
	Prefix  string
	BaseURL string
}

type Proxy struct {
	routes  []route
	headers map[string]string
	logger  logger.Logger
}

type route struct {
	prefix  string
	handler *httputil.ReverseProxy
}

func New(routes []Route, headers map[string]string, log logger.Logger) (*Proxy, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	p := &Proxy{headers: headers, logger: log}

	for _, r := range routes {
		target, err := url.Parse(r.BaseURL)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid proxy target for %s: %q", r.Prefix, r.BaseURL)
		}
		p.routes = append(p.routes, route{prefix: strings.TrimRight(r.Prefix, "/"), handler: p.reverseProxy(target)})
	}
	return p, nil
}

// Register mounts every route on the engine.
func (p *Proxy) Register(r gin.IRoutes) {
	for _, rt := range p.routes {
		h := p.handle(rt)
		r.Any(rt.prefix+"/*path", h)
	}
}

func (p *Proxy) handle(rt route) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request.Clone(c.Request.Context())
		req.URL.Path = c.Param("path")
		req.URL.RawPath = ""
		rt.handler.ServeHTTP(c.Writer, req)
	}
}

func (p *Proxy) reverseProxy(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
			for k, v := range p.headers {
				pr.Out.Header.Set(k, v)
			}
			pr.Out.Header.Del("Cookie")
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.logger.Error("Proxy request failed", map[string]interface{}{
				"target": target.Host,
				"path":   r.URL.Path,
				"error":  err.Error(),
			})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"message":"Fetch Error"}`))
		},
	}
}
