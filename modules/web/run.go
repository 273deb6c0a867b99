package web

import (
	"fmt"
	"time"

	"auxbox/helpers"
	"auxbox/modules/search"
	"auxbox/modules/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// API bundles the handlers' collaborators. Everything is injected so tests
// can stand up the whole surface against a throwaway database.
type API struct {
	codec     *session.Codec
	registry  *session.Registry
	store     *session.Store
	search    *search.Client
	hub       *Hub
	publicURL string
}

func NewAPI(codec *session.Codec, registry *session.Registry, store *session.Store, searchClient *search.Client, hub *Hub, publicURL string) *API {
	return &API{
		codec:     codec,
		registry:  registry,
		store:     store,
		search:    searchClient,
		hub:       hub,
		publicURL: publicURL,
	}
}

// Router builds the route table.
func (a *API) Router() *gin.Engine {
	router := gin.Default()

	config := cors.Config{
		AllowOrigins:     []string{"*"}, // Allow all origins, adjust as needed
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(config))

	router.POST("/start", a.handleStart)
	router.GET("/join", a.handleJoin)
	router.GET("/ws/:token", a.handleWebSocket)

	authorized := router.Group("/", a.authorize)
	{
		authorized.GET("/session", a.handleGetSession)
		authorized.DELETE("/session", a.handleEndSession)
		authorized.GET("/qr", a.handleQr)

		authorized.GET("/search", a.handleSearch)

		authorized.GET("/queue", a.handleGetQueue)
		authorized.PUT("/queue", a.handleAddQueue)
		authorized.DELETE("/queue", a.handleDelQueue)
		authorized.PATCH("/queue", a.handleMoveQueue)

		authorized.PATCH("/player", a.handleTogglePlay)
		authorized.PUT("/player", a.handleJump)
		authorized.POST("/player/next", a.handleAdvance)
	}

	return router
}

// Run wires the API from the process-wide config and database and serves
// it on the configured port.
func Run() {
	config := helpers.GetConfig()
	db := helpers.GetXORM()

	codec := session.NewCodec(config.App.HashKey)
	api := NewAPI(
		codec,
		session.NewRegistry(db),
		session.NewStore(db),
		search.NewClient(config.Youtube.APIKey, db),
		NewHub(),
		config.App.PublicURL,
	)

	api.Router().Run(fmt.Sprintf(":%d", config.App.WebPort))
}
