package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bakeryconsole/backend/internal/poller"
)

type dashboardResponse struct {
	Version      uint64    `json:"version"`
	CheckedAt    time.Time `json:"checkedAt"`
	ChangedAt    time.Time `json:"changedAt"`
	ChangedField string    `json:"changedField,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
	Snapshot     any       `json:"snapshot"`
}

func etag(version uint64) string {
	return `"v` + strconv.FormatUint(version, 10) + `"`
}

func toDashboardResponse(state poller.State) dashboardResponse {
	return dashboardResponse{
		Version:      state.Version,
		CheckedAt:    state.CheckedAt,
		ChangedAt:    state.ChangedAt,
		ChangedField: state.ChangedField,
		LastError:    state.LastError,
		Snapshot:     state.Snapshot,
	}
}

// handleDashboard answers with the held snapshot. The ETag is the gate
// version, so it only moves when the snapshot actually changed.
func (a *API) handleDashboard(c *gin.Context) {
	state := a.poller.Current()
	if state.Snapshot == nil {
		msg := state.LastError
		if msg == "" {
			msg = "dashboard not loaded yet"
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": msg})
		return
	}

	tag := etag(state.Version)
	c.Header("ETag", tag)
	c.Header("Cache-Control", "no-cache")
	if matchesETag(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, toDashboardResponse(state))
}

func matchesETag(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}

func (a *API) handleDashboardHistory(c *gin.Context) {
	if a.archive == nil {
		c.JSON(http.StatusOK, gin.H{"snapshots": []any{}})
		return
	}
	limit := parsePositiveLimit(c.Query("limit"), 20, 100)
	records, err := a.archive.ListSnapshots(c.Request.Context(), limit)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": records})
}

// handleDashboardStream pushes every adopted snapshot as a server-sent event,
// starting with the one currently held.
func (a *API) handleDashboardStream(c *gin.Context) {
	updates, cancel := a.poller.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if state := a.poller.Current(); state.Snapshot != nil {
		c.SSEvent("snapshot", toDashboardResponse(state))
		c.Writer.Flush()
	}

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case state, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", toDashboardResponse(state))
			return true
		}
	})
}
