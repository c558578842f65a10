package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ipotracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AlertRequest struct {
	Email string `json:"email" form:"email"`
	IPO   string `json:"ipo" form:"ipo"`
}

type AlertResponse struct {
	Registration models.Registration `json:"registration"`
	Message      string              `json:"message"`
}

var (
	errInvalidEmail = errors.New(invalidEmailMessage)
	errUnavailable  = errors.New(UnavailableMessage)
	errUnknownIPO   = errors.New(unknownIPOMessage)
)

// RegisterAlert acknowledges an alert sign-up. Nothing is stored or sent.
func (ic *IPOController) RegisterAlert(c *gin.Context) {
	var req AlertRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidBodyMessage})
		return
	}

	snap := ic.Source.Current(c.Request.Context())

	reg, err := register(snap, req, ic.Now())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ic.logRegistration(reg)
	c.JSON(http.StatusCreated, AlertResponse{
		Registration: reg,
		Message:      confirmation(reg),
	})
}

func register(snap models.Snapshot, req AlertRequest, at time.Time) (models.Registration, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return models.Registration{}, errInvalidEmail
	}

	if snap.IsEmpty {
		return models.Registration{}, errUnavailable
	}

	ipo := strings.TrimSpace(req.IPO)
	if ipo == "" || !snap.HasName(ipo) {
		return models.Registration{}, errUnknownIPO
	}

	return models.NewRegistration(email, ipo, at), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errUnknownIPO):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func confirmation(reg models.Registration) string {
	return fmt.Sprintf("Successfully registered! We will email alerts for %s to %s.", reg.IPO, reg.Email)
}

func (ic *IPOController) logRegistration(reg models.Registration) {
	ic.Log.WithFields(logrus.Fields{
		"registration_id": reg.ID.String(),
		"ipo":             reg.IPO,
	}).Info("alert registration acknowledged")
}
