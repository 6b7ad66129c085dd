package acceptance

import (
	"bytes"
	"net/http"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/dto"
)

func (s *Suite) adminToken() string {
	s.seed()
	return s.login("admin", "admin").AccessToken
}

func (s *Suite) TestUsers_RequireToken() {
	for _, path := range []string{"/users", "/users/list", "/users/search", "/users/1", "/users/export"} {
		resp, _ := s.do(http.MethodGet, path, nil, "")
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func (s *Suite) TestUsers_ListAndSort() {
	token := s.adminToken()

	resp, body := s.do(http.MethodGet, "/users", nil, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var users []domain.User
	s.decode(body, &users)
	s.Require().Len(users, 11)
	s.Equal("admin", users[0].Username)
	s.NotContains(string(body), "argon2")

	resp, body = s.do(http.MethodGet, "/users?orderBy=name&order=ASC", nil, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(body, &users)
	s.Equal("Administrador", users[0].Name)
	s.Equal("Rafael Pereira", users[len(users)-1].Name)
}

func (s *Suite) TestUsers_Page() {
	token := s.adminToken()

	resp, body := s.do(http.MethodGet, "/users/list?page=2&limit=5", nil, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var page dto.PaginatedUsersResponse
	s.decode(body, &page)
	s.Equal(int64(11), page.Total)
	s.Equal(3, page.TotalPages)
	s.Require().Len(page.Data, 5)
	s.Equal(int64(6), page.Data[0].ID)
}

func (s *Suite) TestUsers_SearchAndGet() {
	token := s.adminToken()

	resp, body := s.do(http.MethodGet, "/users/search?searchTerm=silva", nil, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var users []domain.User
	s.decode(body, &users)
	s.Require().Len(users, 1)
	s.Equal("joao", users[0].Username)

	resp, body = s.do(http.MethodGet, "/users/3", nil, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var user domain.User
	s.decode(body, &user)
	s.Equal("maria", user.Username)

	resp, _ = s.do(http.MethodGet, "/users/999", nil, token)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestUsers_Create() {
	token := s.adminToken()

	resp, body := s.do(http.MethodPost, "/users", dto.CreateUserRequest{
		Username: "fernanda", Password: "123456", Name: "Fernanda Lopes", Phone: "(21) 90000-1111",
		IsActive: boolPtr(false),
	}, token)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var user domain.User
	s.decode(body, &user)
	s.Equal(int64(12), user.ID)
	s.False(user.IsActive)

	resp, _ = s.do(http.MethodPost, "/auth/login", dto.LoginRequest{Username: "fernanda", Password: "123456"}, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestUsers_UpdateStatusPublishesEvent() {
	token := s.adminToken()

	resp, body := s.do(http.MethodPatch, "/users/5/status", dto.UpdateStatusRequest{Status: boolPtr(false)}, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var result dto.UpdateStatusResponse
	s.decode(body, &result)
	s.False(result.User.IsActive)
	s.Equal("success", result.Event.Status)
	s.Equal(int64(5), result.Event.Message.UserID)
	s.False(result.Event.Message.NewStatus)
	s.Equal(domain.ActionUpdateStatus, result.Event.Message.Action)

	resp, _ = s.do(http.MethodPatch, "/users/999/status", dto.UpdateStatusRequest{Status: boolPtr(true)}, token)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestUsers_Filter() {
	token := s.adminToken()
	filter := func(clauses ...dto.FilterClause) []domain.User {
		resp, body := s.do(http.MethodPost, "/users/filter", dto.FilterRequest{Filters: clauses}, token)
		s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
		var users []domain.User
		s.decode(body, &users)
		return users
	}
	text := func(v string) *string { return &v }

	s.Len(filter(), 11)

	users := filter(
		dto.FilterClause{Field: "Nome", Operator: "contém", Value: text("silva")},
		dto.FilterClause{Field: "Nome", Operator: "ou", Value: text("santos")},
	)
	s.Len(users, 2)

	users = filter(dto.FilterClause{Field: "ID", Operator: "é", Value: text("3")})
	s.Require().Len(users, 1)
	s.Equal("maria", users[0].Username)

	// a clause with no usable value is ignored
	s.Len(filter(dto.FilterClause{Field: "ID", Operator: "é", Value: text("three")}), 11)

	users = filter(dto.FilterClause{Field: "Telefone", Operator: "contém", Value: text("9999-9999")})
	s.Len(users, 2)

	users = filter(dto.FilterClause{Field: "Data de cadastro", Operator: "maior que", DateValue: text("2000-01-01")})
	s.Len(users, 11)

	resp, _ := s.do(http.MethodPost, "/users/filter", map[string]any{
		"filters": []map[string]any{{"field": "Email", "operator": "é", "value": "x"}},
	}, token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestUsers_FilterByStatus() {
	token := s.adminToken()

	resp, _ := s.do(http.MethodPatch, "/users/2/status", dto.UpdateStatusRequest{Status: boolPtr(false)}, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.do(http.MethodPost, "/users/filter", dto.FilterRequest{Filters: []dto.FilterClause{
		{Field: "Status", Operator: "é", BooleanValue: boolPtr(false)},
	}}, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var users []domain.User
	s.decode(body, &users)
	s.Require().Len(users, 1)
	s.Equal("joao", users[0].Username)
}

func (s *Suite) TestUsers_FilterOptions() {
	token := s.adminToken()

	resp, body := s.do(http.MethodGet, "/users/filter/options", nil, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var options dto.FilterOptionsResponse
	s.decode(body, &options)
	s.Len(options.Fields, 5)
	s.Equal("ou", options.Join)
}

func (s *Suite) TestUsers_Export() {
	token := s.adminToken()

	resp, body := s.do(http.MethodGet, "/users/export?orderBy=name", nil, token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/pdf", resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Content-Disposition"), "attachment")
	s.True(bytes.HasPrefix(body, []byte("%PDF-")))
}
