package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/hiddengem/nova-travel/internal/storage"
)

const sessionMaxAge = 60 * 60 * 24 * 7

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	if _, err := s.users.FindByUsername(c.Request.Context(), creds.Username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("registration lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("password hash failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	user, err := s.users.Create(c.Request.Context(), creds.Username, string(hashed))
	if err != nil {
		s.log.Error("user create failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"createdAt": user.CreatedAt,
	})
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := s.users.FindByUsername(c.Request.Context(), creds.Username)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		s.log.Error("login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error during login"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	s.setSessionCookie(c, user.ID)
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"createdAt": user.CreatedAt,
	})
}

func (s *HTTPServer) handleLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(userCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) handleAuthCheck(c *gin.Context) {
	userID := s.currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusOK, nil)
		return
	}

	user, err := s.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"createdAt": user.CreatedAt,
	})
}

func (s *HTTPServer) setSessionCookie(c *gin.Context, userID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(userCookie, userID, sessionMaxAge, "/", "", false, true)
}
