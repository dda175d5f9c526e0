// Package client es el SDK tipado contra la API de la plataforma.
// Lo consumen los flujos de calculadora y social (calcflow, social) y el CLI.
package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pet-care-platform/internal/platform/httpclient"
)

// Timeout global único para todos los requests del SDK.
const requestTimeout = 15 * time.Second

type Client struct {
	http  *httpclient.Client
	token string

	// debugUserID habilita el modo dev del server (X-Debug-User-ID).
	debugUserID string
}

func New(baseURL, token string) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(baseURL, requestTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:  hc,
		token: strings.TrimSpace(token),
	}, nil
}

// WithDebugUser retorna un clone que se identifica vía X-Debug-User-ID
// en vez de bearer token. Solo sirve contra un server sin verifier.
func (c *Client) WithDebugUser(userID string) *Client {
	cp := *c
	cp.debugUserID = strings.TrimSpace(userID)
	return &cp
}

func (c *Client) headers() map[string]string {
	h := map[string]string{}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	}
	if c.debugUserID != "" {
		h["X-Debug-User-ID"] = c.debugUserID
	}
	return h
}

// UserID retorna la identidad con la que opera este cliente: el debug
// user si está activo, o el subject del bearer token. Solo identifica
// al usuario del lado cliente; la verificación real la hace el server.
func (c *Client) UserID() string {
	if c.debugUserID != "" {
		return c.debugUserID
	}
	return tokenSubject(c.token)
}

// tokenSubject extrae el claim sub de un JWT sin validar la firma.
// Retorna vacío para tokens opacos o malformados.
func tokenSubject(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}

// UserMessage traduce un error del SDK a un mensaje mostrable.
// El detalle técnico nunca llega al usuario final.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch httpclient.StatusOf(err) {
	case http.StatusBadRequest:
		return "The submitted data is malformed. Please review the form and try again."
	case http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case http.StatusRequestEntityTooLarge:
		return "The image is too large. Please choose a smaller picture."
	default:
		return "Something went wrong. Please try again."
	}
}
