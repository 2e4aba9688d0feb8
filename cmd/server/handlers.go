package main

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/ddimatrix/internal/dataset"
	"github.com/Skufu/ddimatrix/internal/drugview"
	"github.com/Skufu/ddimatrix/internal/edges"
	"github.com/Skufu/ddimatrix/internal/severity"
)

const snapshotKey = "snapshot"

type selectRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
}

func (a *App) requireDataset(c *gin.Context) {
	snap, ok := a.Registry.Current()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no dataset loaded"})
		return
	}
	c.Set(snapshotKey, snap)
	c.Next()
}

func snapshotFrom(c *gin.Context) *dataset.Snapshot {
	return c.MustGet(snapshotKey).(*dataset.Snapshot)
}

func (a *App) listFiles(c *gin.Context) {
	files, err := dataset.Discover(a.DataDir)
	if errors.Is(err, dataset.ErrNoDataDir) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dir": a.DataDir, "files": files})
}

func (a *App) selectDataset(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, gin.H{"error": "invalid payload"}, "choose a file to load")
		return
	}

	files, err := dataset.Discover(a.DataDir)
	if err != nil {
		fail(c, http.StatusNotFound, gin.H{"error": err.Error()}, err.Error())
		return
	}
	f, ok := dataset.Find(files, req.Name)
	if !ok {
		fail(c, http.StatusNotFound, gin.H{"error": "file not found", "name": req.Name}, "file not found: "+req.Name)
		return
	}

	snap, err := a.Registry.LoadFile(f)
	respondLoad(c, snap, err)
}

func (a *App) uploadDataset(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"}, "file too large")
			return
		}
		fail(c, http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"}, "choose a file to upload")
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, gin.H{"error": "cannot read upload"}, "cannot read upload")
		return
	}
	defer f.Close()

	snap, err := a.Registry.LoadUpload(header.Filename, f)
	respondLoad(c, snap, err)
}

func (a *App) loadFromDB(c *gin.Context) {
	if a.Source == nil {
		fail(c, http.StatusServiceUnavailable, gin.H{"error": "database disabled"}, "database disabled")
		return
	}
	snap, err := a.Registry.LoadSource(c.Request.Context(), a.SourceName, a.Source)
	respondLoad(c, snap, err)
}

// wantsHTML reports whether the request came from a browser form rather
// than an API client.
func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// fail answers API clients with body and sends browsers back to the
// dashboard with msg.
func fail(c *gin.Context, status int, body gin.H, msg string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(msg))
		return
	}
	c.JSON(status, body)
}

func respondLoad(c *gin.Context, snap *dataset.Snapshot, err error) {
	if wantsHTML(c) {
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(err.Error()))
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err != nil {
		respondLoadError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap.Info())
}

// respondLoadError maps loader failures onto status codes. The previously
// selected dataset stays active in every case.
func respondLoadError(c *gin.Context, err error) {
	var (
		formatErr *edges.FormatError
		schemaErr *edges.SchemaError
	)
	switch {
	case errors.As(err, &formatErr):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "format_error", "message": err.Error()})
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "schema_error", "message": err.Error(), "missing": schemaErr.Missing})
	case errors.Is(err, edges.ErrSheetNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "sheet_not_found", "message": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "load_failed", "message": err.Error()})
	}
}

func (a *App) datasetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, snapshotFrom(c).Info())
}

func (a *App) matrix(c *gin.Context) {
	snap := snapshotFrom(c)
	c.JSON(http.StatusOK, gin.H{"dataset": snap.Info(), "matrix": snap.Matrix})
}

func (a *App) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": snapshotFrom(c).Index})
}

func (a *App) drugs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"drugs": snapshotFrom(c).Drugs})
}

func (a *App) drugView(c *gin.Context) {
	drug := c.Query("name")
	var opts []drugview.Option
	if tracked, _ := strconv.ParseBool(c.Query("tracked")); tracked {
		opts = append(opts, drugview.TrackedOnly())
	}

	rows, err := snapshotFrom(c).View(drug, opts...)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "drug": drug})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drug": drug, "rows": rows})
}

func (a *App) drugHeatmap(c *gin.Context) {
	drug := c.Query("name")
	h, err := snapshotFrom(c).Heatmap(drug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "drug": drug})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drug": drug, "heatmap": h})
}

type indexRow struct {
	Drug         string
	CI, MAJ, MOD int
	Total        int
}

type dashboardPage struct {
	Info     *dataset.Info
	Legend   []severity.LegendEntry
	Drugs    []string
	Cells    [][]string
	Index    []indexRow
	Selected string
	Rows     []drugview.PartnerRow
	Heatmap  drugview.Heatmap
	Files    []dataset.File
	Message  string
	Error    string
}

func (a *App) dashboard(c *gin.Context) {
	page := dashboardPage{Legend: severity.Legend(), Error: c.Query("error")}
	if files, err := dataset.Discover(a.DataDir); err == nil {
		page.Files = files
	}

	snap, ok := a.Registry.Current()
	if !ok {
		page.Message = "No dataset loaded. Upload a pairs CSV or a workbook with a \"pairs\" sheet."
		c.HTML(http.StatusOK, "dashboard.html", page)
		return
	}

	info := snap.Info()
	page.Info = &info
	page.Drugs = snap.Drugs
	page.Cells = snap.Matrix.Cells()
	for _, e := range snap.Index {
		page.Index = append(page.Index, indexRow{
			Drug:  e.Drug,
			CI:    e.Count(severity.Contraindicated),
			MAJ:   e.Count(severity.Major),
			MOD:   e.Count(severity.Moderate),
			Total: e.Total,
		})
	}

	page.Selected = c.Query("drug")
	if page.Selected == "" && len(snap.Drugs) > 0 {
		page.Selected = snap.Drugs[0]
	}
	if page.Selected != "" {
		rows, err := snap.View(page.Selected)
		if err != nil {
			page.Message = "Unknown drug: " + page.Selected
			page.Selected = ""
		} else {
			page.Rows = rows
			page.Heatmap = drugview.BuildHeatmap(rows)
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", page)
}
