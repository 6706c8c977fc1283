package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub-backend/internal/service"
)

type addCommentRequest struct {
	Comment string   `json:"comment"`
	Rating  *float64 `json:"rating"`
}

func (a *API) AddComment(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	var body addCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := a.Events.AddComment(c.Request.Context(), cl, c.Param("id"), body.Comment, body.Rating)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (a *API) ListComments(c *gin.Context) {
	comments, err := a.Events.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

type updateCommentRequest struct {
	Comment *string  `json:"comment"`
	Rating  *float64 `json:"rating"`
}

func (a *API) UpdateComment(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	var body updateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := a.Events.UpdateComment(c.Request.Context(), cl, c.Param("id"), c.Param("commentId"), service.CommentUpdate{
		Comment: body.Comment,
		Rating:  body.Rating,
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (a *API) DeleteComment(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	if err := a.Events.DeleteComment(c.Request.Context(), cl, c.Param("id"), c.Param("commentId")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (a *API) EventRating(c *gin.Context) {
	rating, err := a.Events.AverageRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
