package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub-backend/internal/apperr"
	"eventhub-backend/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, tok, err := a.Identity.Register(c.Request.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uid": user.ID, "token": tok})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, tok, err := a.Identity.Authenticate(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		// Unknown email on login reports as a bad request, not a 404.
		if apperr.KindOf(err) == apperr.KindNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uid": user.ID, "token": tok})
}

func (a *API) GetUser(c *gin.Context) {
	user, err := a.Identity.PublicProfile(c.Request.Context(), c.Param("uid"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (a *API) UpdateUser(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	var body updateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := a.Identity.UpdateProfile(c.Request.Context(), cl, c.Param("uid"), service.ProfileUpdate{
		Username: body.Username,
		Email:    body.Email,
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (a *API) ChangePassword(c *gin.Context) {
	cl, ok := a.mustCaller(c)
	if !ok {
		return
	}
	var body changePasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := a.Identity.ChangePassword(c.Request.Context(), cl, c.Param("uid"), body.OldPassword, body.NewPassword); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
