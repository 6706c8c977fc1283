package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) ConfirmAttendance(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	rec, err := a.Attendance.Confirm(c.Request.Context(), cl, c.Param("eventId"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance confirmed", "record": rec})
}

func (a *API) CancelAttendance(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	if err := a.Attendance.Cancel(c.Request.Context(), cl, c.Param("eventId")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance cancelled"})
}

func (a *API) ListAttendees(c *gin.Context) {
	recs, err := a.Attendance.Attendees(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (a *API) AttendanceStatus(c *gin.Context) {
	status, err := a.Attendance.Status(c.Request.Context(), c.Param("eventId"), c.Param("uid"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
