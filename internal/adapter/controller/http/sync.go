package httpctrl

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradeforge/listsync/internal/config"
	"github.com/tradeforge/listsync/internal/usecase/relist"
	syncuc "github.com/tradeforge/listsync/internal/usecase/sync"
)

type SyncController struct {
	UC      *syncuc.Reconciler
	Monitor *relist.Monitor
	Options *config.Options
	Auth    gin.HandlerFunc
}

func NewSyncController(uc *syncuc.Reconciler, m *relist.Monitor, opts *config.Options, auth gin.HandlerFunc) *SyncController {
	return &SyncController{UC: uc, Monitor: m, Options: opts, Auth: auth}
}

func (c *SyncController) Register(r *gin.Engine) {
	g := r.Group("/")
	if c.Auth != nil {
		g.Use(c.Auth)
	}
	g.POST("/sync", c.syncAll)
	g.POST("/sync/:sku", c.syncOne)
	g.DELETE("/listings", c.removeAll)
	g.POST("/redo", c.redo)
	g.GET("/status", c.status)
	g.PUT("/options", c.setOptions)
}

// syncAll schedules a full sweep; ?throttled=1 runs the slow, rate-friendly
// variant. The sweep runs in the background — 202 means scheduled.
func (c *SyncController) syncAll(ctx *gin.Context) {
	throttled := ctx.Query("throttled") == "1"
	go func() {
		_ = c.UC.ReconcileAll(context.Background(), throttled)
	}()
	ctx.JSON(http.StatusAccepted, gin.H{"scheduled": true, "throttled": throttled})
}

func (c *SyncController) syncOne(ctx *gin.Context) {
	sku := ctx.Param("sku")
	if err := c.UC.ReconcileSKU(ctx.Request.Context(), sku, nil); err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sku": sku})
}

func (c *SyncController) removeAll(ctx *gin.Context) {
	if err := c.UC.RemoveAll(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"removed": true})
}

// redo reports success once the wipe is confirmed and the rebuild sweep is
// scheduled; it does not wait for every listing write.
func (c *SyncController) redo(ctx *gin.Context) {
	if err := c.UC.Redo(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"redone": true})
}

func (c *SyncController) status(ctx *gin.Context) {
	out := gin.H{
		"sweeping": c.UC.State.Sweeping(),
		"removing": c.UC.State.Removing(),
	}
	if c.Monitor != nil {
		out["relist"] = string(c.Monitor.Phase())
	}
	if c.Options != nil {
		out["forced_bump"] = c.Options.ForcedBump()
	}
	ctx.JSON(http.StatusOK, out)
}

func (c *SyncController) setOptions(ctx *gin.Context) {
	var in struct {
		ForcedBump *bool `json:"forced_bump"`
	}
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.ForcedBump != nil && c.Options != nil {
		c.Options.SetForcedBump(*in.ForcedBump)
	}
	ctx.JSON(http.StatusOK, gin.H{"forced_bump": c.Options.ForcedBump()})
}
