package controllers

import (
	models "WalkyTalky/models/postgres"
	"WalkyTalky/services/party"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Gets a user profile
// @Description Returns the display profile stored for the opaque user id; user is null when no profile was saved yet
// @Tags user
// @Produce json
// @Param user_id path string true "Opaque user id"
// @Success 200 {object} object{success=bool,user=object}
// @Router /user/{user_id} [get]
func GetUserProfile(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")

		profile, err := ps.GetProfile(userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
	}
}

// @Summary Saves a user profile
// @Description Upserts username, color and profile picture for the opaque user id
// @Tags user
// @Accept json
// @Produce json
// @Param user_id path string true "Opaque user id"
// @Param request body object{username=string,color=string,profilePicture=string} true "Profile"
// @Success 200 {object} object{success=bool}
// @Failure 400 {object} object{error=string}
// @Router /user/{user_id} [post]
func SaveUserProfile(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		var body struct {
			Username       string `json:"username"`
			Color          string `json:"color"`
			ProfilePicture string `json:"profilePicture"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		err := ps.SaveProfile(&models.UserProfile{
			UserID:         userID,
			Username:       body.Username,
			Color:          body.Color,
			ProfilePicture: body.ProfilePicture,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
