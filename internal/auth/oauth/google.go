package oauth

import (
	"context"
	"errors"
	"net/http"
)

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (v *Validator) validateGoogle(ctx context.Context, token string) (*UserInfo, error) {
	if token == "" {
		return nil, v.reject(ctx, ProviderGoogle, errors.New("empty token"))
	}
	var info googleUserInfo
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	if err := getJSON(ctx, v.httpClient, v.cfg.GoogleUserInfoURL, header, &info); err != nil {
		return nil, v.reject(ctx, ProviderGoogle, err)
	}
	if info.Sub == "" {
		return nil, v.reject(ctx, ProviderGoogle, errors.New("userinfo missing sub"))
	}
	return &UserInfo{Provider: ProviderGoogle, ID: info.Sub, Email: info.Email, Name: info.Name}, nil
}
