package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/arnavshah/student-rota/pkg/database"
	"github.com/arnavshah/student-rota/pkg/models"
	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/arnavshah/student-rota/pkg/sheet"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// rotaOptions starts from the configured defaults and applies any form overrides
func (h *Handler) rotaOptions(c *gin.Context) (scheduler.Options, error) {
	opts := h.Config.RotaOptions()
	floats := map[string]*float64{"min_pct": &opts.MinPct, "max_pct": &opts.MaxPct}
	for name, dst := range floats {
		if v := c.PostForm(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, fmt.Errorf("%s: %w", name, err)
			}
			*dst = f
		}
	}
	if v := c.PostForm("slots"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("slots: %w", err)
		}
		opts.Slots = n
	}
	if v := c.PostForm("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("seed: %w", err)
		}
		opts.Seed = n
	}
	if v := c.PostForm("marker"); v != "" {
		opts.Marker = v
	}
	return opts, opts.Validate()
}

// readUploads parses the availability sheet and, when present, the roster
func readUploads(c *gin.Context) (*models.AvailabilityTable, models.Roster, error) {
	availFile, err := c.FormFile("availability_file")
	if err != nil {
		return nil, nil, errors.New("availability_file is required")
	}
	f, err := availFile.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open availability file: %w", err)
	}
	defer f.Close()
	table, err := sheet.ReadAvailability(f)
	if err != nil {
		return nil, nil, err
	}

	rosterFile, err := c.FormFile("roster_file")
	if err != nil {
		return table, nil, nil
	}
	rf, err := rosterFile.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open roster file: %w", err)
	}
	defer rf.Close()
	roster, err := sheet.ReadRoster(rf)
	if err != nil {
		return nil, nil, err
	}
	return table, roster, nil
}

// runRota parses the request, runs the pipeline and records usage. It writes the
// error response itself and returns nil in that case.
func (h *Handler) runRota(c *gin.Context) (*scheduler.Result, *database.AllocationRun) {
	opts, err := h.rotaOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil
	}
	table, roster, err := readUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil
	}

	res, err := scheduler.Run(table, roster, opts, h.Logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil
	}
	if h.Metrics != nil {
		h.Metrics.ObserveRun(res)
	}

	var keyID uint
	if key, ok := currentKey(c); ok {
		keyID = key.ID
		if err := database.RecordUsage(h.DB, keyID, len(res.Schedule), len(res.Applied)); err != nil {
			h.Logger.Warn("record usage", zap.Error(err))
		}
	}
	run := database.NewAllocationRun(keyID, res)
	if err := h.DB.Create(run).Error; err != nil {
		h.Logger.Warn("save allocation run", zap.Error(err))
	}
	return res, run
}

// Assign handles the multipart rota request and responds with JSON
func (h *Handler) Assign(c *gin.Context) {
	res, run := h.runRota(c)
	if res == nil {
		return
	}

	unfilled := res.Allocation.UnderFilled
	if unfilled == nil {
		unfilled = []models.ShiftKey{}
	}
	c.JSON(http.StatusOK, models.AssignResponse{
		RunID:      run.ID,
		Seed:       res.Seed,
		Schedule:   res.Schedule,
		Individual: res.Individual,
		Overall:    res.Overall,
		Unfilled:   unfilled,
		Warnings:   res.WarningMessages(),
	})
}

// AssignXLSX handles the multipart rota request and responds with an Excel workbook
func (h *Handler) AssignXLSX(c *gin.Context) {
	res, run := h.runRota(c)
	if res == nil {
		return
	}

	var buf bytes.Buffer
	if err := sheet.WriteWorkbook(&buf, res); err != nil {
		h.Logger.Error("write workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build workbook"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sheet.OutputName("schedule", time.Now())))
	c.Header("X-Rota-Run", run.ID)
	c.Header("X-Rota-Seed", strconv.FormatInt(res.Seed, 10))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
