package handlers

import (
	socketio_types "WalkyTalky/services/socket_io/types"
	"WalkyTalky/utils"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// HandleJoinChannel subscribes the socket to a chat channel room after
// checking the user may read it: party membership always, team membership
// for team channels.
func HandleJoinChannel(client *socket.Socket, db *gorm.DB, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 2 {
			client.Emit("error", gin.H{"error": "party_id and chat_id are required"})
			return
		}
		partyID, ok := args[0].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid party id"})
			return
		}
		chatID, ok := args[1].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid chat id"})
			return
		}

		if _, err := utils.CheckPartyExists(db, partyID); err != nil {
			client.Emit("error", gin.H{"error": "Party does not exist"})
			return
		}

		isMember, err := utils.IsPartyMember(db, partyID, userID)
		if err != nil || !isMember {
			client.Emit("error", gin.H{"error": "You must join the party before subscribing"})
			return
		}

		if chatID != "everyone" {
			inTeam, err := utils.IsTeamMember(db, chatID, userID)
			if err != nil || !inTeam {
				client.Emit("error", gin.H{"error": "You must join the team before subscribing"})
				return
			}
		}

		room := socketio_types.ChannelRoom(partyID, chatID)
		client.Join(room)
		log.Printf("User %s subscribed to channel %s", userID, room)
		client.Emit("joined_channel", gin.H{"party_id": partyID, "chat_id": chatID})
	}
}

// HandleLeaveChannel unsubscribes the socket from a channel room.
func HandleLeaveChannel(client *socket.Socket, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 2 {
			return
		}
		partyID, ok1 := args[0].(string)
		chatID, ok2 := args[1].(string)
		if !ok1 || !ok2 {
			return
		}
		client.Leave(socketio_types.ChannelRoom(partyID, chatID))
		log.Printf("User %s left channel %s:%s", userID, partyID, chatID)
	}
}

// HandleDisconnecting drops the connection from the registry.
func HandleDisconnecting(userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("User %s disconnecting", userID)
		sio.RemoveConnection(userID)
	}
}
