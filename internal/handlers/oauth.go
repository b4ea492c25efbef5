package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"
	"techmart_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
)

// ================== AUTH SOCIALE (WEB) ==================

// 🟢 GET /api/auth/:provider
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	// L'URL de retour du front est conservée dans Redis le temps du flow
	state := generateRandomState()
	if redirectURL := c.Query("redirect_url"); redirectURL != "" {
		_ = database.Redis.Set(context.Background(), "oauth_redirect:"+state, redirectURL, 10*time.Minute).Err()
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	q.Set("state", state)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// 🟢 GET /api/auth/:provider/callback
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Callback OAuth %s échoué: %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification échouée"})
		return
	}

	user := findOrCreateOAuthUser(provider, gothUser.UserID, gothUser.Email, gothUser.Name)
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	ctx := context.Background()
	redirectURI, _ := database.Redis.Get(ctx, "oauth_redirect:"+state).Result()
	_ = database.Redis.Del(ctx, "oauth_redirect:"+state).Err()

	if redirectURI == "" {
		redirectURI = os.Getenv("FRONTEND_URL")
		if redirectURI == "" {
			redirectURI = "http://localhost:5173"
		}
	}

	target := redirectURI + "?token=" + url.QueryEscape(token)
	c.Redirect(http.StatusTemporaryRedirect, target)
}

func generateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// findOrCreateOAuthUser retrouve un compte par provider_id, sinon par email,
// sinon le crée.
func findOrCreateOAuthUser(provider, providerID, email, name string) models.User {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := database.GetUsersSession()
	if err != nil {
		log.Println("❌ Erreur connexion base de données:", err)
		return models.User{Email: email, Name: name, Provider: provider, ProviderID: providerID}
	}

	// 1️⃣ Recherche par email via la table renversée
	var userID string
	err = database.GetPreparedGetUserByEmail().WithContext(ctx).Bind(email).Scan(&userID)
	if err == nil {
		user := models.User{ID: userID}
		scanErr := database.GetPreparedGetUserByID().WithContext(ctx).Bind(userID).
			Scan(&user.Email, &user.Password, &user.Name, &user.Role, &user.Provider, &user.ProviderID)
		if scanErr == nil {
			if user.Provider != provider {
				// Compte existant → fusion avec le provider social
				_ = session.Query(`UPDATE users SET provider = ?, provider_id = ?, name = ? WHERE user_id = ?`,
					provider, providerID, name, userID).WithContext(ctx).Exec()
				user.Provider = provider
				user.ProviderID = providerID
				log.Printf("🔄 Compte existant fusionné avec provider %s : %s", provider, email)
			} else {
				log.Printf("✅ Utilisateur OAuth existant trouvé : %s", email)
			}
			return user
		}
	} else if err != gocql.ErrNotFound {
		log.Println("❌ Erreur lookup OAuth:", err)
	}

	// 2️⃣ Création d'un nouvel utilisateur OAuth
	user := models.User{
		ID:         uuid.NewString(),
		Email:      email,
		Name:       name,
		Role:       "customer",
		Provider:   provider,
		ProviderID: providerID,
	}
	if err := database.GetPreparedInsertUser().WithContext(ctx).
		Bind(user.ID, user.Email, "", user.Name, user.Role, user.Provider, user.ProviderID, time.Now()).
		Exec(); err != nil {
		log.Println("❌ Erreur création utilisateur OAuth:", err)
		return user
	}
	_ = database.GetPreparedInsertUserByEmail().WithContext(ctx).Bind(user.Email, user.ID).Exec()

	log.Printf("🆕 Utilisateur OAuth créé (%s) : %s", provider, email)

	go func() {
		if err := utils.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Println("❌ Erreur envoi e-mail de bienvenue:", err)
		}
	}()

	return user
}
