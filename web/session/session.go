// Package session keeps the logged-in identity in the gin session.
package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginUser = "LOGIN_USER"
	// CookieName names the session cookie.
	CookieName = "userdesk"
)

func SetLoginUser(c *gin.Context, login string) error {
	s := sessions.Default(c)
	s.Set(loginUser, login)
	return s.Save()
}

// SetMaxAge sets the cookie lifetime in seconds.
func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

func GetLoginUser(c *gin.Context) string {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if login, ok := obj.(string); ok {
			return login
		}
	}
	return ""
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != ""
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return s.Save()
}
