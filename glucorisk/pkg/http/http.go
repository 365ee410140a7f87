package http

import (
	"context"
	"embed"
	"errors"
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/metrics"
	"glucotrend/glucorisk/pkg/normalize"
	"glucotrend/glucorisk/pkg/store"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	dashboardTemplate = "dashboard.html"
	uploadField       = "file"
)

type Uploader interface {
	UploadCSV(r io.Reader) (defs.Upload, error)
}

type Syncer interface {
	FetchAndLoad(ctx context.Context) (defs.Upload, error)
}

type HttpServer struct {
	Store    store.SeriesReader
	Uploader Uploader
	Syncer   Syncer
	Metrics  *metrics.Metrics

	Logger         *zap.Logger
	Location       *time.Location
	GlucoseConfig  defs.GlucoseConfig
	MaxUploadBytes int64
}

func (s *HttpServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware())
	}

	tmpl := template.Must(template.New("").Funcs(templateFuncs(s.location())).ParseFS(templateFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.dashboard)
	r.POST("/upload", s.uploadForm)
	r.POST("/dexcom/sync", s.dexcomSyncForm)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	api.POST("/upload", s.uploadAPI)
	api.GET("/analysis", s.analysis)
	api.GET("/series", s.series)
	api.POST("/dexcom/sync", s.dexcomSync)

	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	return r
}

func (s *HttpServer) dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, dashboardTemplate, s.newView(""))
}

func (s *HttpServer) uploadForm(c *gin.Context) {
	u, status, err := s.receiveUpload(c)
	if err != nil {
		c.HTML(status, dashboardTemplate, s.newView(err.Error()))
		return
	}
	s.Logger.Debug("upload accepted from form", zap.String("id", u.ID.String()))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *HttpServer) uploadAPI(c *gin.Context) {
	u, status, err := s.receiveUpload(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newUploadSummary(u))
}

// receiveUpload reads the multipart file and hands it to the uploader,
// mapping failures to a status code.
func (s *HttpServer) receiveUpload(c *gin.Context) (defs.Upload, int, error) {
	if s.MaxUploadBytes > 0 {
		if c.Request.ContentLength > s.MaxUploadBytes {
			return defs.Upload{}, http.StatusRequestEntityTooLarge, errors.New("upload too large")
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxUploadBytes)
	}

	fh, err := c.FormFile(uploadField)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return defs.Upload{}, http.StatusRequestEntityTooLarge, errors.New("upload too large")
		}
		return defs.Upload{}, http.StatusBadRequest, errors.New("file required")
	}

	f, err := fh.Open()
	if err != nil {
		return defs.Upload{}, http.StatusInternalServerError, err
	}
	defer f.Close()

	u, err := s.Uploader.UploadCSV(f)
	if err != nil {
		if normalize.IsRejected(err) {
			return defs.Upload{}, http.StatusBadRequest, err
		}
		s.Logger.Debug("unable to store upload", zap.Error(err))
		return defs.Upload{}, http.StatusInternalServerError, errors.New("unable to store upload")
	}
	return u, http.StatusOK, nil
}

func (s *HttpServer) analysis(c *gin.Context) {
	v := s.newView("")
	resp := gin.H{
		"analysis":    v.Analysis,
		"summary":     v.Summary,
		"timeInRange": v.Range,
	}
	if v.Upload != nil {
		resp["upload"] = newUploadSummary(*v.Upload)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HttpServer) series(c *gin.Context) {
	v := s.newView("")
	c.JSON(http.StatusOK, gin.H{"points": v.Points})
}

func (s *HttpServer) dexcomSyncForm(c *gin.Context) {
	u, status, err := s.runSync(c)
	if err != nil {
		c.HTML(status, dashboardTemplate, s.newView(err.Error()))
		return
	}
	s.Logger.Debug("dexcom sync from form", zap.String("id", u.ID.String()))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *HttpServer) dexcomSync(c *gin.Context) {
	u, status, err := s.runSync(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newUploadSummary(u))
}

// runSync pulls from the Dexcom syncer, answering 404 when none is configured
// and 502 when the upstream fetch fails.
func (s *HttpServer) runSync(c *gin.Context) (defs.Upload, int, error) {
	if s.Syncer == nil {
		return defs.Upload{}, http.StatusNotFound, defs.ErrNoDexcom
	}

	u, err := s.Syncer.FetchAndLoad(c.Request.Context())
	switch {
	case errors.Is(err, defs.ErrNoDexcom):
		return defs.Upload{}, http.StatusNotFound, err
	case err != nil:
		s.Logger.Debug("dexcom sync failed", zap.Error(err))
		return defs.Upload{}, http.StatusBadGateway, err
	}
	return u, http.StatusOK, nil
}

func (s *HttpServer) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}
