//go:build e2e
// +build e2e

package e2e

import (
	"encoding/json"
	"net/http"
)

// TestAuthFlow covers the invite, register, login path over HTTP.
func (s *E2ETestSuite) TestAuthFlow() {
	s.seedSuperAdmin("root@example.com", "rootpass")
	rootToken := s.login("root@example.com", "rootpass")

	// Issue an invite
	resp, body := s.postJSON("/invites", rootToken, map[string]any{
		"email": "alice@example.com",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var invite struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(body, &invite))

	// Anyone can inspect the invite before registering
	resp, body = s.doRequest("GET", "/invites/"+invite.Token, "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	// Redeem it
	resp, body = s.postJSON("/auth/register", "", map[string]string{
		"token":    invite.Token,
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "alicepass",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	// The invite is single use
	resp, body = s.postJSON("/auth/register", "", map[string]string{
		"token":    invite.Token,
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "alicepass",
	})
	s.Require().Equal(http.StatusConflict, resp.StatusCode, string(body))

	// The new account can log in
	aliceToken := s.login("alice@example.com", "alicepass")
	s.Require().NotEmpty(aliceToken)

	// Regular users cannot issue invites
	resp, body = s.postJSON("/invites", aliceToken, map[string]any{
		"email": "bob@example.com",
	})
	s.Require().Equal(http.StatusForbidden, resp.StatusCode, string(body))
}

// TestPromptVisibility covers the read rules over HTTP.
func (s *E2ETestSuite) TestPromptVisibility() {
	s.seedSuperAdmin("root@example.com", "rootpass")
	rootToken := s.login("root@example.com", "rootpass")

	aliceToken := s.registerUser(rootToken, "alice@example.com", "alicepass")
	bobToken := s.registerUser(rootToken, "bob@example.com", "bobpass")

	// Alice creates a private prompt
	resp, body := s.postJSON("/prompts", aliceToken, map[string]any{
		"title": "secret",
		"body":  "hidden text",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var prompt struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(body, &prompt))

	// Bob cannot see it, and cannot tell it exists
	resp, _ = s.doRequest("GET", "/prompts/"+prompt.ID, bobToken, nil)
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)

	// Alice flips it public
	resp, body = s.doRequest("PUT", "/prompts/"+prompt.ID, aliceToken,
		jsonBody(map[string]any{"visibility": "PUBLIC"}))
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	// Now Bob reads it but cannot edit it
	resp, _ = s.doRequest("GET", "/prompts/"+prompt.ID, bobToken, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.doRequest("PUT", "/prompts/"+prompt.ID, bobToken,
		jsonBody(map[string]any{"title": "hijacked"}))
	s.Require().Equal(http.StatusForbidden, resp.StatusCode)

	// Bob forks it instead; his copy is private and his own
	resp, body = s.postJSON("/prompts/"+prompt.ID+"/fork", bobToken, map[string]any{})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var fork struct {
		ID         string  `json:"id"`
		Visibility string  `json:"visibility"`
		TeamID     *string `json:"team_id"`
	}
	s.Require().NoError(json.Unmarshal(body, &fork))
	s.Require().Equal("PRIVATE", fork.Visibility)
	s.Require().Nil(fork.TeamID)

	// Alice cannot see Bob's fork
	resp, _ = s.doRequest("GET", "/prompts/"+fork.ID, aliceToken, nil)
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)
}

// TestTeamLastAdmin covers the admin floor over HTTP.
func (s *E2ETestSuite) TestTeamLastAdmin() {
	s.seedSuperAdmin("root@example.com", "rootpass")
	rootToken := s.login("root@example.com", "rootpass")

	aliceToken := s.registerUser(rootToken, "alice@example.com", "alicepass")
	bobID, _ := s.registerUserID(rootToken, "bob@example.com", "bobpass")

	resp, body := s.postJSON("/teams", aliceToken, map[string]string{"name": "backend"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var team struct {
		Team struct {
			ID string `json:"id"`
		} `json:"team"`
		Members []struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		} `json:"members"`
	}
	s.Require().NoError(json.Unmarshal(body, &team))
	s.Require().Len(team.Members, 1)
	s.Require().Equal("ADMIN", team.Members[0].Role)
	aliceID := team.Members[0].UserID

	// The creator is the only admin, so removing them must fail
	resp, body = s.doRequest("DELETE", "/teams/"+team.Team.ID+"/members/"+aliceID, aliceToken, nil)
	s.Require().Equal(http.StatusConflict, resp.StatusCode, string(body))

	// Add a second admin, then the removal goes through
	resp, body = s.postJSON("/teams/"+team.Team.ID+"/members", aliceToken, map[string]string{
		"user_id": bobID,
		"role":    "ADMIN",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = s.doRequest("DELETE", "/teams/"+team.Team.ID+"/members/"+aliceID, aliceToken, nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
}

// TestTrendingFlow covers favorites feeding the public trending lists.
func (s *E2ETestSuite) TestTrendingFlow() {
	s.seedSuperAdmin("root@example.com", "rootpass")
	rootToken := s.login("root@example.com", "rootpass")

	aliceToken := s.registerUser(rootToken, "alice@example.com", "alicepass")
	bobToken := s.registerUser(rootToken, "bob@example.com", "bobpass")

	resp, body := s.postJSON("/prompts", aliceToken, map[string]any{
		"title":      "popular",
		"body":       "text",
		"visibility": "PUBLIC",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var prompt struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(body, &prompt))

	resp, body = s.postJSON("/prompts/"+prompt.ID+"/favorite", bobToken, map[string]any{})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	// Trending is public, no token needed
	resp, body = s.doRequest("GET", "/trending/most-favorited", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var trending struct {
		Prompts []struct {
			ID            string `json:"id"`
			FavoriteCount int    `json:"favorite_count"`
		} `json:"prompts"`
		Total int `json:"total"`
	}
	s.Require().NoError(json.Unmarshal(body, &trending))
	s.Require().Equal(1, trending.Total)
	s.Require().Equal(prompt.ID, trending.Prompts[0].ID)
	s.Require().Equal(1, trending.Prompts[0].FavoriteCount)
}

// registerUser invites and registers a user, returning their token.
func (s *E2ETestSuite) registerUser(rootToken, email, password string) string {
	token, _ := s.registerUserID(rootToken, email, password)
	return token
}

// registerUserID invites and registers a user, returning token and user id.
func (s *E2ETestSuite) registerUserID(rootToken, email, password string) (string, string) {
	resp, body := s.postJSON("/invites", rootToken, map[string]any{"email": email})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var invite struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(body, &invite))

	resp, body = s.postJSON("/auth/register", "", map[string]string{
		"token":    invite.Token,
		"email":    email,
		"name":     email,
		"password": password,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var registered struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	s.Require().NoError(json.Unmarshal(body, &registered))
	return registered.Token, registered.UserID
}
