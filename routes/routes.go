package routes

import (
	"WalkyTalky/controllers"
	"WalkyTalky/services/party"
	"WalkyTalky/services/socket_io"

	"github.com/gin-gonic/gin"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, ps *party.PartyService, sio *socket_io.SocketServer) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	// User profiles (identity itself is external; the id is opaque)
	api.GET("/user/:user_id", controllers.GetUserProfile(ps))
	api.POST("/user/:user_id", controllers.SaveUserProfile(ps))

	// Party lifecycle
	api.POST("/party/create", controllers.CreateParty(ps))
	api.POST("/party/join", controllers.JoinParty(ps))
	api.GET("/party/:party_id", controllers.GetPartyInfo(ps))
	api.DELETE("/party/:party_id", controllers.DeleteParty(ps))

	// Admin-gated party management
	api.POST("/party/:party_id/settings", controllers.UpdatePartySettings(ps))
	api.POST("/party/:party_id/password", controllers.UpdatePartyPassword(ps))
	api.POST("/party/:party_id/codes/regenerate", controllers.RegenerateCodes(ps))
	api.POST("/party/:party_id/admin/add", controllers.AddAdmin(ps))
	api.POST("/party/:party_id/admin/remove", controllers.RemoveAdmin(ps))

	// Teams
	api.POST("/party/:party_id/team/create", controllers.CreateTeam(ps))
	api.POST("/party/:party_id/team/:team_id/join", controllers.JoinTeam(ps))

	// Chat
	api.POST("/party/:party_id/message", controllers.SendMessage(ps, sio))
	api.GET("/party/:party_id/messages/:chat_id", controllers.GetMessages(ps))
}
