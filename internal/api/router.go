package api

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"teacher-registry-backend/internal/mw"
	"teacher-registry-backend/internal/photo"
	"teacher-registry-backend/internal/registry"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options tunes the router middleware.
type Options struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
	MaxUploadBytes  int64
}

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *registry.Service, photos *photo.Storage, opts Options) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	handler := NewHandler(svc, photos, opts.MaxUploadBytes)

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst)

	// The school directory is static, so its search results can be cached.
	// Search ignores case, so the key does too.
	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL, mw.QueryKey("query"))

	r.GET("/", handler.Index)
	r.GET("/list", handler.ListTeachers)
	r.GET("/delete/:id", handler.DeleteTeacher)
	r.GET(photo.URLPrefix+"/*filepath", handler.ServePhoto)
	r.GET("/healthz", handler.Health)
	r.POST("/register", rateLimiter, handler.Register)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// GET /api/schools?query=
		api.GET("/schools", caching, handler.SearchSchools)
	}

	return r
}
