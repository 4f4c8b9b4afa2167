package handlers

import (
	"net/http"

	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// ValidateInput parses the uploaded sheets without allocating and reports what was found
func (h *Handler) ValidateInput(c *gin.Context) {
	opts, err := h.rotaOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	table, roster, err := readUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}

	if len(table.Students) == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "At least one student column is required"})
		return
	}

	if err := scheduler.CheckStudents(table.Students); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	shifts, warnings := scheduler.ExtractShifts(table, opts.Marker)
	if len(shifts) == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "No row contains a recognisable shift label"})
		return
	}

	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		messages = append(messages, w.String())
	}
	rosterSize := 0
	if roster != nil {
		rosterSize = len(roster)
		for _, s := range table.Students {
			if _, ok := roster[s]; !ok {
				messages = append(messages, scheduler.Warning{Kind: scheduler.MissingRosterEntry, Student: s}.String())
			}
		}
	}

	applied := 0
	for _, n := range scheduler.CountAppliedShifts(table, opts.Marker) {
		applied += n
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"warnings": messages,
		"stats": gin.H{
			"shift_count":   len(shifts),
			"student_count": len(table.Students),
			"roster_count":  rosterSize,
			"applications":  applied,
			"slots_needed":  len(shifts) * opts.Slots,
		},
	})
}
