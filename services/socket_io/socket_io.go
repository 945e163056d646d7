package socket_io

import (
	"WalkyTalky/services/socket_io/handlers"
	socketio_types "WalkyTalky/services/socket_io/types"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// SocketServer pushes appended chat messages to subscribed clients.
// Delivery stays pull-based at the HTTP boundary; sockets are an optional
// fast path on top of the same channel logs.
type SocketServer socketio_types.SocketServer

func (sio *SocketServer) Start(router *gin.Engine, db *gorm.DB) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and
	// 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		userID, err := userIDFromHandshake(client)
		if err != nil {
			client.Emit("error", gin.H{"error": err.Error()})
			client.Disconnect(true)
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(userID, client)
		log.Printf("Socket connected: %s", userID)

		// Subscribe to a chat channel room (party-wide or team)
		client.On("join_channel", handlers.HandleJoinChannel(client, db, userID))

		// Unsubscribe from a channel room
		client.On("leave_channel", handlers.HandleLeaveChannel(client, userID))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(userID, (*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}

// BroadcastMessage emits an appended message to every socket subscribed to
// the channel's room.
func (sio *SocketServer) BroadcastMessage(partyID string, chatID string, message interface{}) {
	if sio == nil || sio.Sio_server == nil {
		return
	}
	room := socketio_types.ChannelRoom(partyID, chatID)
	sio.Sio_server.To(room).Emit("new_message", gin.H{
		"party_id": partyID,
		"chat_id":  chatID,
		"message":  message,
	})
}

// Close shuts the socket server down.
func (sio *SocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}

// userIDFromHandshake reads the opaque user id the client supplies in the
// handshake auth payload. Identity is managed outside this service; the id
// is trusted as-is.
func userIDFromHandshake(client *socket.Socket) (string, error) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		return "", errMissingAuth
	}
	userID, exists := authData["userId"].(string)
	if !exists || userID == "" {
		return "", errMissingUserID
	}
	return userID, nil
}
