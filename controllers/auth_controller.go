package controllers

import (
	"net/http"

	"github.com/RichKitibwa/BloodLink/app"
	"github.com/RichKitibwa/BloodLink/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// Login exchanges credentials for an opaque bearer token. The same
// error is returned for unknown users and wrong passwords.
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		ac.fail(c, apperr.New(apperr.Validation, err.Error()))
		return
	}

	u, err := ac.Repo.FindUserByLogin(c.Request.Context(), in.Username)
	if err != nil || !u.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(in.Password)) != nil {
		ac.fail(c, apperr.New(apperr.Unauthorized, "incorrect username or password"))
		return
	}

	token := uuid.NewString()
	if err := ac.Sessions.Create(c.Request.Context(), token, u.ID, u.HospitalID); err != nil {
		ac.fail(c, err)
		return
	}
	_ = ac.Repo.TouchUserLogin(c.Request.Context(), u.ID)
	app.LoginsTotal.Inc()
	ac.Log.Info("login", zap.String("user", u.Username), zap.String("hospital", u.HospitalID))

	c.JSON(http.StatusOK, app.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(ac.Cfg.SessionTTL.Seconds()),
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) {
		_ = ac.Sessions.Delete(c.Request.Context(), h[len(prefix):])
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
