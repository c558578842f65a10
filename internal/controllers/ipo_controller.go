package controllers

import (
	"context"
	"net/http"
	"time"

	"ipotracker/internal/logger"
	"ipotracker/internal/models"
	"ipotracker/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	UnavailableMessage  = "Wait! The robot couldn't find the data. The source website might be down for maintenance."
	invalidEmailMessage = "Please enter a valid email address."
	invalidBodyMessage  = "Invalid request body."
	unknownIPOMessage   = "Please select an IPO from the current list."
)

// SnapshotSource provides the snapshot to render.
type SnapshotSource interface {
	Current(ctx context.Context) models.Snapshot
}

type IPOController struct {
	Source SnapshotSource
	Log    *logrus.Entry
	Now    func() time.Time
}

func NewIPOController(source SnapshotSource, log logrus.FieldLogger) *IPOController {
	return &IPOController{
		Source: source,
		Log:    logger.WithComponent(log, "controllers"),
		Now:    time.Now,
	}
}

type IPOsResponse struct {
	models.Snapshot
	Error string `json:"error,omitempty"`
}

// GetIPOs returns the current GMP snapshot
func (ic *IPOController) GetIPOs(c *gin.Context) {
	snap := ic.Source.Current(c.Request.Context())

	res := IPOsResponse{Snapshot: snap}
	if snap.IsEmpty {
		res.Error = UnavailableMessage
	}

	c.JSON(http.StatusOK, res)
}

type flash struct {
	Kind    string
	Message string
}

type dashboardPage struct {
	Today       string
	Snapshot    models.Snapshot
	Unavailable string
	Flash       *flash
	Email       string
	Selected    string
}

// Dashboard renders the HTML page
func (ic *IPOController) Dashboard(c *gin.Context) {
	snap := ic.Source.Current(c.Request.Context())
	c.HTML(http.StatusOK, views.Dashboard, ic.page(snap))
}

// DashboardRegister handles the alert form of the dashboard
func (ic *IPOController) DashboardRegister(c *gin.Context) {
	snap := ic.Source.Current(c.Request.Context())
	page := ic.page(snap)

	var req AlertRequest
	if err := c.ShouldBind(&req); err != nil {
		page.Flash = &flash{Kind: "error", Message: invalidBodyMessage}
		c.HTML(http.StatusBadRequest, views.Dashboard, page)
		return
	}
	page.Email = req.Email
	page.Selected = req.IPO

	reg, err := register(snap, req, ic.Now())
	if err != nil {
		page.Flash = &flash{Kind: "error", Message: err.Error()}
		c.HTML(statusFor(err), views.Dashboard, page)
		return
	}

	ic.logRegistration(reg)
	page.Flash = &flash{Kind: "success", Message: confirmation(reg)}
	page.Email = ""
	c.HTML(http.StatusCreated, views.Dashboard, page)
}

func (ic *IPOController) page(snap models.Snapshot) dashboardPage {
	return dashboardPage{
		Today:       ic.Now().Format("02 January, 2006"),
		Snapshot:    snap,
		Unavailable: UnavailableMessage,
	}
}
