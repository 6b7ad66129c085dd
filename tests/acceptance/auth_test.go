package acceptance

import (
	"net/http"

	"github.com/prperemyshlev/user-service/internal/dto"
)

var unauthorized = dto.ErrorResponse{Error: "Unauthorized", Message: "invalid credentials or token"}

func (s *Suite) TestHealthEndpoint() {
	resp, body := s.do(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode, string(body))
	s.JSONEq(`{"status":"pass"}`, string(body))
}

func (s *Suite) TestMetricsEndpoint() {
	resp, _ := s.do(http.MethodGet, "/metrics", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestRegister_Success() {
	resp, body := s.do(http.MethodPost, "/auth/register", dto.RegisterRequest{
		Username: "lucas", Password: "123456", Name: "Lucas Ferreira", Phone: "(11) 92222-2222",
	}, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var auth dto.AuthResponse
	s.decode(body, &auth)
	s.NotEmpty(auth.AccessToken)
	s.NotEmpty(auth.RefreshToken)
	s.Equal("Bearer", auth.TokenType)
	s.Equal(900, auth.ExpiresIn)
	s.Equal("lucas", auth.User.Username)
	s.True(auth.User.IsActive)

	s.login("lucas", "123456")
}

func (s *Suite) TestRegister_DuplicateUsername() {
	req := dto.RegisterRequest{Username: "lucas", Password: "123456", Name: "Lucas", Phone: "(11) 92222-2222"}

	resp, _ := s.do(http.MethodPost, "/auth/register", req, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, body := s.do(http.MethodPost, "/auth/register", req, "")
	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.decode(body, &errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_InvalidInput() {
	resp, _ := s.do(http.MethodPost, "/auth/register", dto.RegisterRequest{
		Username: "x", Password: "123", Name: "X", Phone: "phone",
	}, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_FailuresAreIndistinguishable() {
	s.seed()

	// deactivate joao
	resp, _ := s.do(http.MethodPatch, "/users/2/status", dto.UpdateStatusRequest{Status: boolPtr(false)}, s.login("admin", "admin").AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	for _, creds := range []dto.LoginRequest{
		{Username: "nobody", Password: "123456"},
		{Username: "maria", Password: "wrong"},
		{Username: "joao", Password: "123456"},
	} {
		resp, body := s.do(http.MethodPost, "/auth/login", creds, "")
		s.Equal(http.StatusUnauthorized, resp.StatusCode, creds.Username)

		var errResp dto.ErrorResponse
		s.decode(body, &errResp)
		s.Equal(unauthorized, errResp, creds.Username)
	}
}

func (s *Suite) TestRefresh() {
	s.seed()
	auth := s.login("maria", "123456")

	resp, body := s.do(http.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: auth.RefreshToken}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var refreshed dto.AuthResponse
	s.decode(body, &refreshed)
	s.NotEmpty(refreshed.AccessToken)
	s.Equal("maria", refreshed.User.Username)

	// an access token is not a refresh token
	resp, _ = s.do(http.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: auth.AccessToken}, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_DeactivatedUser() {
	s.seed()
	auth := s.login("pedro", "123456")

	resp, _ := s.do(http.MethodPatch, "/users/4/status", dto.UpdateStatusRequest{Status: boolPtr(false)}, s.login("admin", "admin").AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: auth.RefreshToken}, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestValidateAndMe() {
	s.seed()
	auth := s.login("admin", "admin")

	resp, body := s.do(http.MethodGet, "/auth/validate", nil, auth.AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"valid":true}`, string(body))

	resp, body = s.do(http.MethodGet, "/auth/me", nil, auth.AccessToken)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var me dto.ClaimsResponse
	s.decode(body, &me)
	s.Equal(int64(1), me.ID)
	s.Equal("admin", me.Username)
	s.NotEmpty(me.ExpiresAt)

	// a refresh token cannot be used as a bearer token
	resp, _ = s.do(http.MethodGet, "/auth/me", nil, auth.RefreshToken)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/auth/me", nil, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogin_RateLimited() {
	for i := 0; i < rateLimitRequests; i++ {
		resp, _ := s.do(http.MethodPost, "/auth/login", dto.LoginRequest{Username: "nobody", Password: "x"}, "")
		s.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
	}

	resp, _ := s.do(http.MethodPost, "/auth/login", dto.LoginRequest{Username: "nobody", Password: "x"}, "")
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("Retry-After"))
}

func boolPtr(b bool) *bool { return &b }
