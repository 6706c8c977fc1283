package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Admin handlers run behind the RequireAdmin middleware; they do not
// re-check the role themselves.

func (a *API) ListUsers(c *gin.Context) {
	users, err := a.Identity.ListUsers(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *API) MakeAdmin(c *gin.Context) {
	if err := a.Identity.PromoteToAdmin(c.Request.Context(), c.Param("uid")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user promoted to admin"})
}
