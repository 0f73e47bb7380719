package api

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"factoryguard/console/internal/config"
	"factoryguard/console/internal/console"
	"factoryguard/console/internal/metrics"
	"factoryguard/console/internal/predict"
	"factoryguard/console/internal/store"
)

// Server wires the form page, the prediction proxy and the submission log.
type Server struct {
	client         *predict.Client
	controller     *console.Controller
	screens        *console.Screens
	form           config.FormSchema
	fields         []config.Field
	db             *store.Database
	notifier       *SubmissionNotifier
	allowedOrigins []string
}

// ErrLogDisabled is returned by log endpoints when no database is configured.
var ErrLogDisabled = errors.New("submission log disabled")

// NewServer constructs the HTTP server from the process configuration.
func NewServer(cfg config.Config) (*Server, error) {
	client, err := predict.NewClient(cfg.Predict)
	if err != nil {
		return nil, fmt.Errorf("predict client: %w", err)
	}

	var db *store.Database
	if strings.TrimSpace(cfg.DBPath) == "" {
		logrus.Info("submission log disabled - no database path configured")
	} else {
		db, err = store.Open(cfg.DBPath, true)
		if err != nil {
			return nil, err
		}
	}

	server := &Server{
		client:         client,
		screens:        console.NewScreens(cfg.Form.SubmitLabel, cfg.SessionTTL),
		form:           cfg.Form,
		fields:         cfg.Form.Fields(),
		db:             db,
		notifier:       NewSubmissionNotifier(),
		allowedOrigins: cfg.AllowedOrigins,
	}
	server.controller = console.NewController(client, server, cfg.Form.SubmitLabel)

	logrus.WithFields(logrus.Fields{
		"predict_url": client.URL(),
		"timeout":     cfg.Predict.Timeout,
		"fields":      len(server.fields),
	}).Info("prediction console configured")

	return server, nil
}

// Close releases the submission log.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.handleIndex)
	r.POST("/", s.handleSubmit)
	r.GET("/screen", s.handleScreen)
	r.POST("/predict", s.handlePredictProxy)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/form", s.handleForm)
		api.GET("/submissions", s.handleListSubmissions)
		api.GET("/submissions/:id", s.handleGetSubmission)
		api.GET("/stream", s.handleStream)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (s *Server) handleForm(c *gin.Context) {
	c.JSON(http.StatusOK, FormResponse{
		Title:       s.form.Title,
		SubmitLabel: s.form.SubmitLabel,
		Fields:      s.fields,
	})
}

func (s *Server) handlePredictProxy(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}

	status, payload, contentType, err := s.client.Forward(c.Request.Context(), body, c.GetHeader("Content-Type"))
	if err != nil {
		metrics.ObserveProxy(0)
		logrus.WithError(err).Warn("relay prediction request")
		s.renderError(c, http.StatusBadGateway, err)
		return
	}
	metrics.ObserveProxy(status)

	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(status, contentType, payload)
}

func (s *Server) handleListSubmissions(c *gin.Context) {
	if s.db == nil {
		s.renderError(c, http.StatusServiceUnavailable, ErrLogDisabled)
		return
	}

	limit := 50
	if value := strings.TrimSpace(c.Query("limit")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", value))
			return
		}
		limit = parsed
	}

	rows, err := s.db.RecentSubmissions(c.Query("outcome"), limit)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	counts, err := s.db.CountByOutcome()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	resp := SubmissionsResponse{Items: make([]SubmissionDTO, 0, len(rows)), Counts: counts}
	for _, row := range rows {
		resp.Items = append(resp.Items, SubmissionFromModel(row))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetSubmission(c *gin.Context) {
	if s.db == nil {
		s.renderError(c, http.StatusServiceUnavailable, ErrLogDisabled)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	row, err := s.db.GetSubmission(id)
	if err != nil {
		if store.IsNotFound(err) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("submission %s not found", id))
			return
		}
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, SubmissionFromModel(*row))
}

func (s *Server) handleStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("submission websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("submission websocket closed")
			} else {
				logrus.WithError(err).Warn("submission websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
