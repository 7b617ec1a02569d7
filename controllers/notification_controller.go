package controllers

import (
	"net/http"

	"github.com/RichKitibwa/BloodLink/app"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

func (nc *NotificationController) List(c *gin.Context) {
	ns, err := nc.Repo.ListNotifications(c.Request.Context(), hospitalID(c),
		queryBool(c, "unread_only", false), 50)
	if err != nil {
		nc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ns})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.Repo.MarkNotificationRead(c.Request.Context(), hospitalID(c), c.Param("id")); err != nil {
		nc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

type TransferController struct{ *Srv }

func NewTransferController(s *Srv) *TransferController { return &TransferController{Srv: s} }

// List returns the hospital's transfer audit history.
func (tc *TransferController) List(c *gin.Context) {
	ts, err := tc.Repo.ListTransfers(c.Request.Context(), hospitalID(c))
	if err != nil {
		tc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ts})
}
