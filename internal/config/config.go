package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Load charge le fichier d'environnement (ENV_FILE, sinon .env). Absence non
// fatale : en production les variables viennent de l'hébergeur.
func Load() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Aucun fichier %s trouvé — on continue avec les variables d'environnement du système", envFile)
		return
	}
	log.Printf("✅ Fichier %s chargé avec succès", envFile)
}
