package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/quanghuy/intelliquiz-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dev only, restrict in production
	},
}

func sendJSON(conn *websocket.Conn, data interface{}) {
	msg, err := json.Marshal(data)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Println("WS send error:", err)
	}
}

// HandleMaterialWebSocket streams processing status for one material.
// Browsers cannot set headers on WS connects, the token rides in the query.
func HandleMaterialWebSocket(c *gin.Context) {
	materialID := c.Param("id")
	token := c.Query("token")

	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, "No token provided")
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	H.Register(materialID, conn)
	defer H.Unregister(materialID, conn)

	sendJSON(conn, gin.H{"type": "connected", "message": "Connected to material " + materialID})
	log.Printf("Material WS connected: materialID=%s, userID=%s\n", materialID, claims.UserID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	log.Printf("Material WS disconnected: materialID=%s, userID=%s\n", materialID, claims.UserID)
}

// HandleGlobalWebSocket pushes list-changed signals to dashboard pages.
func HandleGlobalWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, "No token provided")
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	H.RegisterGlobal(conn)
	defer H.UnregisterGlobal(conn)

	sendJSON(conn, gin.H{"type": "connected", "message": "Connected to global WebSocket"})
	log.Printf("Global WS connected: userID=%s\n", claims.UserID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	log.Printf("Global WS disconnected: userID=%s\n", claims.UserID)
}
