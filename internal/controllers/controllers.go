// Package controllers is the HTTP plumbing over the core services: bind the
// request, call the operation, translate the result to JSON.
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/middleware"
	"eventhub-backend/internal/service"
)

type API struct {
	Identity   *service.Identity
	Events     *service.Events
	Attendance *service.Attendance
	Log        zerolog.Logger
}

func NewAPI(identity *service.Identity, events *service.Events, attendance *service.Attendance, log zerolog.Logger) *API {
	return &API{Identity: identity, Events: events, Attendance: attendance, Log: log}
}

// fail converts any core error to its JSON body and status. Internal
// failures are logged with the cause; the client only sees the status.
func (a *API) fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		a.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// caller reads the identity the auth middleware stored on the context.
func caller(c *gin.Context) (service.Caller, bool) {
	uid := c.GetString(middleware.CtxUserID)
	if uid == "" {
		return service.Caller{}, false
	}
	return service.Caller{UserID: uid, Email: c.GetString(middleware.CtxEmail)}, true
}

func (a *API) mustCaller(c *gin.Context) (service.Caller, bool) {
	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return cl, ok
}
