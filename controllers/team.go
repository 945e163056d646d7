package controllers

import (
	"WalkyTalky/metrics"
	models "WalkyTalky/models/postgres"
	"WalkyTalky/services/party"
	"net/http"

	"github.com/gin-gonic/gin"
)

func teamJSON(t *models.Team) gin.H {
	return gin.H{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"color":       t.Color,
		"isPrivate":   t.IsPrivate,
		"maxMembers":  t.MaxMembers,
		"creatorId":   t.CreatorID,
		"memberIds":   t.MemberIDs(),
		"createdAt":   t.CreatedAt,
	}
}

// @Summary Creates a team inside a party
// @Description Creates a team; the creator auto-joins unless autoJoin is false. Requires membership and the membersCanCreateTeams setting (or admin).
// @Tags team
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string,teamName=string,description=string,color=string,isPrivate=bool,maxMembers=integer,autoJoin=bool} true "Team definition"
// @Success 200 {object} object{success=bool,team=object}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /party/{party_id}/team/create [post]
func CreateTeam(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID      string `json:"userId"`
			TeamName    string `json:"teamName"`
			Description string `json:"description"`
			Color       string `json:"color"`
			IsPrivate   bool   `json:"isPrivate"`
			MaxMembers  int    `json:"maxMembers"`
			AutoJoin    *bool  `json:"autoJoin"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		// autoJoin defaults to true when omitted.
		autoJoin := body.AutoJoin == nil || *body.AutoJoin

		team, err := ps.CreateTeam(partyID, body.UserID, party.CreateTeamInput{
			Name:        body.TeamName,
			Description: body.Description,
			Color:       body.Color,
			IsPrivate:   body.IsPrivate,
			MaxMembers:  body.MaxMembers,
			AutoJoin:    autoJoin,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		metrics.TeamsCreated.Inc()
		c.JSON(http.StatusOK, gin.H{"success": true, "team": teamJSON(team)})
	}
}

// @Summary Joins a team
// @Description Adds the user to a public team; idempotent when already a member
// @Tags team
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param team_id path string true "Id of the team"
// @Param request body object{userId=string} true "Joining user"
// @Success 200 {object} object{success=bool,alreadyMember=bool}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /party/{party_id}/team/{team_id}/join [post]
func JoinTeam(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		teamID := c.Param("team_id")
		var body struct {
			UserID string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		alreadyMember, err := ps.JoinTeam(partyID, teamID, body.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "alreadyMember": alreadyMember})
	}
}
