package api

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"factoryguard/console/internal/config"
	"factoryguard/console/internal/console"
	"factoryguard/console/internal/render"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	sessionCookie  = "factoryguard_session"
	maxFormMemory  = 1 << 20
	pageTemplate   = "index.html.tmpl"
	emptyChartJSON = template.JS("null")
)

// pageData feeds index.html.tmpl.
type pageData struct {
	Title        string
	BusyLabel    string
	Fields       []config.Field
	Screen       console.Regions
	FailureChart template.JS
	RiskChart    template.JS
}

func (s *Server) handleIndex(c *gin.Context) {
	screen := s.screens.Get(s.session(c))
	s.renderPage(c, screen.Snapshot())
}

func (s *Server) handleSubmit(c *gin.Context) {
	session := s.session(c)
	form, err := submittedValues(c.Request)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	screen := s.screens.Get(session)
	s.controller.Submit(c.Request.Context(), session, screen, form)
	s.renderPage(c, screen.Snapshot())
}

func (s *Server) handleScreen(c *gin.Context) {
	screen := s.screens.Get(s.session(c))
	c.JSON(http.StatusOK, screen.Snapshot())
}

func (s *Server) renderPage(c *gin.Context, regions console.Regions) {
	data := pageData{
		Title:        s.form.Title,
		BusyLabel:    console.BusyLabel,
		Fields:       s.fields,
		Screen:       regions,
		FailureChart: emptyChartJSON,
		RiskChart:    emptyChartJSON,
	}
	if regions.Results.Visible && regions.Results.View != nil {
		data.FailureChart = chartJS(regions.Results.View.FailureChart)
		data.RiskChart = chartJS(regions.Results.View.RiskChart)
	}
	c.HTML(http.StatusOK, pageTemplate, data)
}

// session returns the caller's session id, issuing a cookie on first visit.
func (s *Server) session(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, perr := uuid.Parse(id); perr == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}

// submittedValues returns the posted form fields, ignoring the query string.
func submittedValues(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
		return url.Values(r.MultipartForm.Value), nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// chartJS encodes a chart for an inline script. encoding/json escapes <, >
// and & so the output cannot close the script element.
func chartJS(cfg render.ChartConfig) template.JS {
	data, err := json.Marshal(cfg)
	if err != nil {
		logrus.WithError(err).Warn("encode chart config")
		return emptyChartJSON
	}
	return template.JS(data)
}
