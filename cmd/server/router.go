package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/ddimatrix/internal/dataset"
	"github.com/Skufu/ddimatrix/internal/drugview"
	"github.com/Skufu/ddimatrix/internal/metrics"
	"github.com/Skufu/ddimatrix/internal/severity"
)

//go:embed templates/*.html
var templateFS embed.FS

// App carries what the handlers share. DB and Source are nil when the
// database is disabled.
type App struct {
	Registry       *dataset.Registry
	DataDir        string
	MaxUploadBytes int64

	DB         HealthChecker
	Source     dataset.Source
	SourceName string
}

func setupRouter(app *App) *gin.Engine {
	maxBody := app.MaxUploadBytes
	if maxBody <= 0 {
		maxBody = 32 << 20
	}

	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(maxBody),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)
	router.MaxMultipartMemory = maxBody
	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"),
	))

	router.GET("/", app.dashboard)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		_, loaded := app.Registry.Current()
		if app.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled", "dataset": loaded})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := app.DB.Ping(ctx); err != nil {
			dbStatus = fmt.Sprintf("unhealthy: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"db":      dbStatus,
				"dataset": loaded,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"db":      dbStatus,
			"dataset": loaded,
		})
	})

	api := router.Group("/api")
	api.GET("/legend", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tiers": severity.Legend(), "empty": severity.EmptyColor})
	})
	api.GET("/files", app.listFiles)
	api.POST("/datasets", app.uploadDataset)
	api.POST("/datasets/select", app.selectDataset)
	api.POST("/datasets/db", app.loadFromDB)

	snap := api.Group("", app.requireDataset)
	snap.GET("/dataset", app.datasetInfo)
	snap.GET("/matrix", app.matrix)
	snap.GET("/index", app.index)
	snap.GET("/drugs", app.drugs)
	snap.GET("/drugs/view", app.drugView)
	snap.GET("/drugs/heatmap", app.drugHeatmap)

	return router
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

var templateFuncs = template.FuncMap{
	"codeColor": severity.CodeColor,
	"tierColor": severity.Color,
	"heatColor": func(h drugview.Heatmap, v int) string {
		return h.CellColor(v)
	},
}
