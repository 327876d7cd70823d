package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config contiene la configuración del servicio de seguimiento.
type Config struct {
	GithubToken     string   `json:"github_token"`
	GithubRepo      string   `json:"github_repo"` // formato "owner/repo"
	Language        string   `json:"language"`
	ListenAddr      string   `json:"listen_addr"`
	AppURL          string   `json:"app_url"`
	JWTSecret       string   `json:"jwt_secret"`
	ResendAPIKey    string   `json:"resend_api_key"`
	ResendFromEmail string   `json:"resend_from_email"`
	AllowedEmails   []string `json:"allowed_emails"`
	RequestTimeout  int      `json:"request_timeout_seconds"`
}

const (
	defaultLang           = "en"
	defaultListenAddr     = ":8080"
	defaultAppURL         = "http://localhost:8080"
	defaultFromEmail      = "no-reply@onelance.ch"
	defaultRequestTimeout = 15
)

// LoadConfig carga la configuración desde un archivo JSON y aplica las
// variables de entorno por encima. Si el archivo no existe se parte de los
// valores por defecto.
func LoadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		if filepath.Ext(path) != ".json" {
			return nil, fmt.Errorf("el archivo de configuración debe ser JSON: %s", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error al leer el archivo de configuración: %w", err)
		}

		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error al decodificar el archivo JSON: %w", err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("la configuración cargada no es válida: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Language:        defaultLang,
		ListenAddr:      defaultListenAddr,
		AppURL:          defaultAppURL,
		ResendFromEmail: defaultFromEmail,
		RequestTimeout:  defaultRequestTimeout,
	}
}

// applyEnvOverrides aplica las variables de entorno del despliegue original.
func applyEnvOverrides(config *Config) {
	overrides := map[string]*string{
		"GITHUB_PAT":        &config.GithubToken,
		"GITHUB_REPO":       &config.GithubRepo,
		"RESEND_API_KEY":    &config.ResendAPIKey,
		"RESEND_FROM_EMAIL": &config.ResendFromEmail,
		"JWT_SECRET":        &config.JWTSecret,
		"APP_URL":           &config.AppURL,
	}

	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

func validateConfig(config *Config) error {
	if config.GithubRepo == "" {
		return fmt.Errorf("github_repo es requerido")
	}
	if _, _, err := splitRepo(config.GithubRepo); err != nil {
		return err
	}
	if config.Language == "" {
		config.Language = defaultLang
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

// SplitRepo separa el slug "owner/repo" configurado.
func (c *Config) SplitRepo() (owner, repo string) {
	owner, repo, _ = splitRepo(c.GithubRepo)
	return owner, repo
}

func splitRepo(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("github_repo debe tener el formato owner/repo: %q", slug)
	}
	return parts[0], parts[1], nil
}
