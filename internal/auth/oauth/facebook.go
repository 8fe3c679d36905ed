package oauth

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

type facebookDebugToken struct {
	Data struct {
		IsValid bool   `json:"is_valid"`
		AppID   string `json:"app_id"`
		UserID  string `json:"user_id"`
	} `json:"data"`
}

type facebookMe struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// validateFacebook checks the token with debug_token using the app access
// token, then loads the profile with the user token.
func (v *Validator) validateFacebook(ctx context.Context, token string) (*UserInfo, error) {
	if token == "" {
		return nil, v.reject(ctx, ProviderFacebook, errors.New("empty token"))
	}
	if v.cfg.FacebookAppID == "" || v.cfg.FacebookAppSecret == "" {
		return nil, v.reject(ctx, ProviderFacebook, errors.New("facebook app is not configured"))
	}
	base := strings.TrimRight(v.cfg.FacebookGraphURL, "/")

	debugQuery := url.Values{
		"input_token":  {token},
		"access_token": {v.cfg.FacebookAppID + "|" + v.cfg.FacebookAppSecret},
	}
	var debug facebookDebugToken
	if err := getJSON(ctx, v.httpClient, base+"/debug_token?"+debugQuery.Encode(), nil, &debug); err != nil {
		return nil, v.reject(ctx, ProviderFacebook, err)
	}
	if !debug.Data.IsValid {
		return nil, v.reject(ctx, ProviderFacebook, errors.New("token is not valid"))
	}
	if debug.Data.AppID != "" && debug.Data.AppID != v.cfg.FacebookAppID {
		return nil, v.reject(ctx, ProviderFacebook, errors.New("token issued for another app"))
	}

	meQuery := url.Values{"fields": {"id,name,email"}, "access_token": {token}}
	var me facebookMe
	if err := getJSON(ctx, v.httpClient, base+"/me?"+meQuery.Encode(), nil, &me); err != nil {
		return nil, v.reject(ctx, ProviderFacebook, err)
	}
	if me.ID == "" {
		return nil, v.reject(ctx, ProviderFacebook, errors.New("profile missing id"))
	}
	return &UserInfo{Provider: ProviderFacebook, ID: me.ID, Email: me.Email, Name: me.Name}, nil
}
