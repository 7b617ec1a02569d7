// controllers/srv.go
package controllers

import (
	"net/http"

	"github.com/RichKitibwa/BloodLink/app"
	"github.com/RichKitibwa/BloodLink/apperr"
	"github.com/RichKitibwa/BloodLink/config"
	"github.com/RichKitibwa/BloodLink/db"
	"github.com/RichKitibwa/BloodLink/models"
	"github.com/RichKitibwa/BloodLink/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Srv struct {
	Repo     *db.Repo
	Sessions *session.TokenStore
	Log      *zap.Logger
	Cfg      config.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:     db.NewRepo(a.DB, a.Config),
		Sessions: a.Sessions(),
		Log:      a.Log,
		Cfg:      a.Config,
	}
}

// --- helpers ---

func hospitalID(c *gin.Context) string {
	v, _ := c.Get(app.CtxHospitalID)
	id, _ := v.(string)
	return id
}

func userID(c *gin.Context) string {
	v, _ := c.Get(app.CtxUserID)
	id, _ := v.(string)
	return id
}

// fail writes the error with its taxonomy kind so clients can branch on
// a stable value instead of parsing messages.
func (s *Srv) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.Log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, app.H{"error": "internal error", "kind": "internal"})
		return
	}
	if apperr.IsKind(err, apperr.Conflict) {
		app.ConflictsTotal.Inc()
	}
	c.JSON(status, app.H{"error": err.Error(), "kind": apperr.KindOf(err).String()})
}

// callerHospital loads the acting hospital for distance estimates; nil
// when it cannot be resolved.
func (s *Srv) callerHospital(c *gin.Context) *models.Hospital {
	h, err := s.Repo.FindHospitalByID(c.Request.Context(), hospitalID(c))
	if err != nil {
		return nil
	}
	return h
}
