package controllers

import (
	"WalkyTalky/metrics"
	"WalkyTalky/services/party"
	"WalkyTalky/services/socket_io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Sends a message to a channel
// @Description Appends a message to the party-wide "everyone" channel or a team channel; sender must be a member of the party (and the team)
// @Tags chat
// @Accept json
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param request body object{userId=string,chatId=string,content=string,imageUrl=string} true "Message"
// @Success 200 {object} object{success=bool,message=object}
// @Failure 403 {object} object{error=string}
// @Router /party/{party_id}/message [post]
func SendMessage(ps *party.PartyService, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		var body struct {
			UserID   string `json:"userId"`
			ChatID   string `json:"chatId"`
			Content  string `json:"content"`
			ImageURL string `json:"imageUrl"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if body.ChatID == "" {
			body.ChatID = party.EveryoneChannel
		}

		msg, err := ps.SendMessage(partyID, body.ChatID, body.UserID, body.Content, body.ImageURL)
		if err != nil {
			respondError(c, err)
			return
		}

		metrics.MessagesSent.Inc()

		// Push to subscribed sockets; polling clients pick it up on the next
		// list call either way.
		if sio != nil {
			sio.BroadcastMessage(partyID, body.ChatID, msg)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
	}
}

// @Summary Lists the messages of a channel
// @Description Returns every message of the channel in append order
// @Tags chat
// @Produce json
// @Param party_id path string true "Id of the party"
// @Param chat_id path string true "Channel id: everyone or a team id"
// @Success 200 {object} object{success=bool,messages=array}
// @Router /party/{party_id}/messages/{chat_id} [get]
func GetMessages(ps *party.PartyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		partyID := c.Param("party_id")
		chatID := c.Param("chat_id")

		messages, err := ps.GetMessages(partyID, chatID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
	}
}
