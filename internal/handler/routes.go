package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the control API on r.
func RegisterRoutes(r gin.IRouter, notifier *NotifierHandler, session *SessionHandler) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/notifier/start", notifier.HandleStart)
		v1.POST("/notifier/stop", notifier.HandleStop)
		v1.POST("/notifier/permission", notifier.HandleRequestPermission)
		v1.POST("/notifier/check", notifier.HandleCheck)
		v1.GET("/notifier/status", notifier.HandleStatus)

		v1.PUT("/session", session.HandleLogin)
		v1.DELETE("/session", session.HandleLogout)
		v1.PUT("/navigation", session.HandleNavigation)
	}
}
