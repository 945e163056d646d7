package controllers

import (
	"WalkyTalky/metrics"
	models "WalkyTalky/models/postgres"
	apperrors "WalkyTalky/pkg/errors"
	"WalkyTalky/services/party"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// partyJSON serializes a party for responses. Join codes are included only
// when the requesting user is allowed to see them.
func partyJSON(p *models.Party, showCodes bool) gin.H {
	everyoneCode := p.EveryoneCode
	singleUseCodes := make([]gin.H, 0, len(p.JoinCodes))
	for _, jc := range p.JoinCodes {
		if jc.Kind != models.CodeKindSingleUse {
			continue
		}
		code := jc.Code
		if !showCodes {
			code = ""
		}
		singleUseCodes = append(singleUseCodes, gin.H{"code": code, "used": jc.Used})
	}
	if !showCodes {
		everyoneCode = ""
	}

	return gin.H{
		"id":             p.ID,
		"name":           p.Name,
		"description":    p.Description,
		"banner":         p.Banner,
		"adminIds":       p.AdminIDs(),
		"everyoneCode":   everyoneCode,
		"singleUseCodes": singleUseCodes,
		"hasPassword":    p.HasPassword(),
		"settings":       p.Settings,
		"createdAt":      p.CreatedAt,
	}
}

// @Summary Creates a new party
// @Description Creates a party with merged settings, join codes and the creator as sole admin
// @Tags party
// @Accept json
// @Produce json
// @Param request body object{userId=string,partyName=string,description=string,banner=object,settings=object,password=string} true "Party definition"
// @Success 200 {object} object{success=bool,party=object,partyId=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /party/create [post]
func CreateParty(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			UserID      string                    `json:"userId"`
			PartyName   string                    `json:"partyName"`
			Description string                    `json:"description"`
			Banner      datatypes.JSON            `json:"banner"`
			Settings    *party.PartySettingsPatch `json:"settings"`
			Password    string                    `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		created, err := ps.CreateParty(party.CreatePartyInput{
			OwnerUserID: body.UserID,
			Name:        body.PartyName,
			Description: body.Description,
			Banner:      body.Banner,
			Settings:    body.Settings,
			Password:    body.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		metrics.PartiesCreated.Inc()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"party":   partyJSON(created, true),
			"partyId": created.ID,
		})
	}
}

// @Summary Joins a party using a join code
// @Description Redeems an everyone or single-use code; idempotent for existing members
// @Tags party
// @Accept json
// @Produce json
// @Param request body object{userId=string,code=string,password=string} true "Join request"
// @Success 200 {object} object{success=bool,party=object,partyId=string,alreadyMember=bool}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string,requiresPassword=bool}
// @Failure 404 {object} object{error=string}
// @Router /party/join [post]
func JoinParty(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			UserID   string `json:"userId"`
			Code     string `json:"code"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		result, err := ps.JoinParty(body.UserID, body.Code, body.Password)
		if err != nil {
			metrics.JoinRequests.WithLabelValues("error").Inc()
			// The client re-prompts for a password on this signal; the code
			// has not been consumed.
			if apperrors.CodeOf(err) == apperrors.CodeUnauthenticated {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "requiresPassword": true})
				return
			}
			respondError(c, err)
			return
		}

		metrics.JoinRequests.WithLabelValues("success").Inc()
		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"party":            partyJSON(result.Party, false),
			"partyId":          result.PartyID,
			"alreadyMember":    result.AlreadyMember,
			"requiresPassword": result.RequiresPassword,
		})
	}
}

// @Summary Gives info of a party
// @Description Returns the party with its member and team lists. Join codes are redacted unless the requesting user (user_id query param) may see them.
// @Tags party
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param user_id query string false "Requesting user id, used for code visibility"
// @Success 200 {object} object{success=bool,party=object,members=array,teams=array}
// @Failure 404 {object} object{error=string}
// @Router /party/{party_id} [get]
func GetPartyInfo(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		userID := c.Query("user_id")

		info, err := ps.GetParty(partyID)
		if err != nil {
			respondError(c, err)
			return
		}

		isMember := party.IsMember(info.Members, userID)
		showCodes := party.CanSeeJoinCodes(info.Party, userID, isMember)

		// Assemble each member's team set from the preloaded rosters.
		teamsByUser := make(map[string][]string)
		teams := make([]gin.H, 0, len(info.Teams))
		for _, t := range info.Teams {
			for _, m := range t.Members {
				teamsByUser[m.UserID] = append(teamsByUser[m.UserID], t.ID)
			}
			teams = append(teams, gin.H{
				"id":          t.ID,
				"name":        t.Name,
				"description": t.Description,
				"color":       t.Color,
				"isPrivate":   t.IsPrivate,
				"maxMembers":  t.MaxMembers,
				"creatorId":   t.CreatorID,
				"memberIds":   t.MemberIDs(),
				"createdAt":   t.CreatedAt,
			})
		}

		members := make([]gin.H, 0, len(info.Members))
		for _, m := range info.Members {
			teamIds := teamsByUser[m.UserID]
			if teamIds == nil {
				teamIds = []string{}
			}
			members = append(members, gin.H{
				"userId":   m.UserID,
				"joinedAt": m.JoinedAt,
				"teamIds":  teamIds,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"party":   partyJSON(info.Party, showCodes),
			"members": members,
			"teams":   teams,
		})
	}
}

// @Summary Deletes a party
// @Description Removes the party and every record scoped to it: members, teams, codes and chat channels; admin-only
// @Tags party
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string} true "Acting admin"
// @Success 200 {object} object{success=bool}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /party/{party_id} [delete]
func DeleteParty(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if err := ps.DeleteParty(partyID, body.UserID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// @Summary Updates party settings
// @Description Merges the settings patch field by field; admin-only
// @Tags party
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string,settings=object} true "Settings patch"
// @Success 200 {object} object{success=bool,party=object}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /party/{party_id}/settings [post]
func UpdatePartySettings(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID   string                    `json:"userId"`
			Settings *party.PartySettingsPatch `json:"settings"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updated, err := ps.UpdateSettings(partyID, body.UserID, body.Settings)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "party": partyJSON(updated, true)})
	}
}

// @Summary Updates the party password
// @Description Sets or clears (empty/null) the join password; admin-only
// @Tags party
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string,password=string} true "New password, empty to clear"
// @Success 200 {object} object{success=bool,party=object}
// @Failure 403 {object} object{error=string}
// @Router /party/{party_id}/password [post]
func UpdatePartyPassword(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID   string  `json:"userId"`
			Password *string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updated, err := ps.UpdatePassword(partyID, body.UserID, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "party": partyJSON(updated, true)})
	}
}

// @Summary Regenerates the single-use join codes
// @Description Invalidates the party's five single-use codes and mints fresh ones; admin-only
// @Tags party
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string} true "Acting admin"
// @Success 200 {object} object{success=bool,party=object}
// @Failure 403 {object} object{error=string}
// @Router /party/{party_id}/codes/regenerate [post]
func RegenerateCodes(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updated, err := ps.RegenerateCodes(partyID, body.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "party": partyJSON(updated, true)})
	}
}

// @Summary Promotes a member to admin
// @Description Adds the target member to the admin set; admin-only
// @Tags party
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string,targetUserId=string} true "Acting admin and target member"
// @Success 200 {object} object{success=bool,party=object}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /party/{party_id}/admin/add [post]
func AddAdmin(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID       string `json:"userId"`
			TargetUserID string `json:"targetUserId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updated, err := ps.AddAdmin(partyID, body.UserID, body.TargetUserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "party": partyJSON(updated, true)})
	}
}

// @Summary Demotes an admin
// @Description Removes the target from the admin set; the last admin can never be removed
// @Tags party
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string,targetUserId=string} true "Acting admin and target admin"
// @Success 200 {object} object{success=bool,party=object}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /party/{party_id}/admin/remove [post]
func RemoveAdmin(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID       string `json:"userId"`
			TargetUserID string `json:"targetUserId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updated, err := ps.RemoveAdmin(partyID, body.UserID, body.TargetUserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "party": partyJSON(updated, true)})
	}
}
