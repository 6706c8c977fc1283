package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub-backend/internal/service"
)

func (a *API) ListEvents(c *gin.Context) {
	events, err := a.Events.List(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (a *API) UpcomingEvents(c *gin.Context) {
	events, err := a.Events.Upcoming(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (a *API) PastEvents(c *gin.Context) {
	events, err := a.Events.Past(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (a *API) SearchEvents(c *gin.Context) {
	events, err := a.Events.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (a *API) EventsByCreator(c *gin.Context) {
	events, err := a.Events.ByCreator(c.Request.Context(), c.Param("uid"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (a *API) GetEvent(c *gin.Context) {
	ev, err := a.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

type createEventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	CreatorUID  string `json:"creatorUid"`
}

func (a *API) CreateEvent(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	var body createEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// creatorUid defaults to the authenticated caller when the body leaves
	// it out.
	creator := body.CreatorUID
	if creator == "" {
		creator = cl.UserID
	}

	ev, err := a.Events.Create(c.Request.Context(), creator, body.Title, body.Date, body.Location, body.Description)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

type updateEventRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (a *API) UpdateEvent(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	var body updateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ev, err := a.Events.Update(c.Request.Context(), cl, c.Param("id"), service.EventUpdate{
		Title:       body.Title,
		Date:        body.Date,
		Location:    body.Location,
		Description: body.Description,
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (a *API) DeleteEvent(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	if err := a.Events.Delete(c.Request.Context(), cl, c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

func (a *API) ShareEvent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"url": a.Events.ShareLink(c.Param("id"))})
}

func (a *API) AttendeeCount(c *gin.Context) {
	count, err := a.Attendance.Count(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
