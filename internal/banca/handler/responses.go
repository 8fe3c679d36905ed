package handler

import (
	"lotolink/internal/banca/credentials"
	"lotolink/internal/banca/models"
	"lotolink/internal/banca/service"
)

type ListResponse struct {
	Bancas []*models.Banca `json:"bancas"`
	Total  int             `json:"total"`
}

// CredentialsResponse is the only response that carries plaintext secrets.
type CredentialsResponse struct {
	Banca       *models.Banca           `json:"banca"`
	Credentials credentials.Credentials `json:"credentials"`
}

func toCredentialsResponse(res *service.IssuedCredentials) CredentialsResponse {
	return CredentialsResponse{Banca: res.Banca, Credentials: res.Credentials}
}
