package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"techmart_back_end/internal/cache"
	"techmart_back_end/internal/cart"
	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"
	"techmart_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ================== AUTH LOCALE ==================

// 🟢 POST /api/auth/signup
func Signup(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// email déjà pris ?
	var existingID string
	err := database.GetPreparedGetUserByEmail().WithContext(ctx).Bind(input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}
	if err != gocql.ErrNotFound {
		log.Println("❌ Erreur lookup email:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     "customer",
		Provider: "local",
	}

	if err := database.GetPreparedInsertUser().WithContext(ctx).
		Bind(user.ID, user.Email, user.Password, user.Name, user.Role, user.Provider, "", time.Now()).
		Exec(); err != nil {
		log.Println("❌ Erreur insertion utilisateur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}
	if err := database.GetPreparedInsertUserByEmail().WithContext(ctx).
		Bind(user.Email, user.ID).Exec(); err != nil {
		log.Println("❌ Erreur insertion users_by_email:", err)
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	go func() {
		if err := utils.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Println("❌ Erreur envoi e-mail de bienvenue:", err)
		}
	}()

	log.Printf("✅ Utilisateur créé : %s", user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

// 🟢 POST /api/auth/login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := findUserByEmail(ctx, input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

// 🟢 POST /api/auth/logout — vide aussi le panier de l'utilisateur
func Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx := context.Background()
	store := cart.NewStore(ctx, cart.NewRedisPersistence(database.Redis, userID))
	store.Clear(ctx)

	cache.InvalidateUserCache(ctx, userID)

	log.Printf("👋 Déconnexion de %s, panier vidé", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

// 🟢 GET /api/auth/me
func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	user, err := cache.GetUserFromCache(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// findUserByEmail résout l'email via la table renversée users_by_email,
// puis charge l'utilisateur complet.
func findUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var userID string
	if err := database.GetPreparedGetUserByEmail().WithContext(ctx).Bind(email).Scan(&userID); err != nil {
		return nil, err
	}

	user := models.User{ID: userID}
	if err := database.GetPreparedGetUserByID().WithContext(ctx).Bind(userID).
		Scan(&user.Email, &user.Password, &user.Name, &user.Role, &user.Provider, &user.ProviderID); err != nil {
		return nil, err
	}
	return &user, nil
}
