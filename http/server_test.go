package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/contest"
	arenahttp "github.com/programme-lv/arena/http"
	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/scoring"
	"github.com/programme-lv/arena/store"
)

const organizerPassword = "correct-horse"

func strPtr(s string) *string { return &s }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cat := catalog.NewInMemCatalog([]catalog.Problem{
		{
			ID: "haybales", Title: "Haybale Stacking", Tier: scoring.TierBronze,
			StatementMd: "# Haybale Stacking", CpuMs: 2000, MemKiB: 262144,
			Tests: []catalog.TestAsset{
				{InContent: strPtr("1 2\n"), AnsContent: strPtr("3\n")},
				{InContent: strPtr("4 5\n"), AnsContent: strPtr("9\n")},
			},
			Hints: map[int]string{1: "use prefix sums"},
		},
	})
	srvc := contest.NewService(cat, judge.NewStubClient(), store.NewInMemStore())

	hash, err := bcrypt.GenerateFromPassword([]byte(organizerPassword), bcrypt.MinCost)
	require.NoError(t, err)

	server := arenahttp.NewHttpServer(srvc, []byte("test"), arenahttp.OrganizerCreds{
		Username:       "organizer",
		PasswordBcrypt: string(hash),
	}, []string{"http://localhost:3000"})
	return server.Handler()
}

func newJsonReq(method, path string, body map[string]interface{}, token string) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func doReq(t *testing.T, handler http.Handler, method, path string, body map[string]interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := newJsonReq(method, path, body, token)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeSuccessData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &envelope)
	require.NoError(t, err, "Failed to unmarshal response body: %s", w.Body.String())
	require.Equal(t, "success", envelope.Status, "Response body: %s", w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

func assertErrorInHttpResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()

	assert.NotEqual(t, http.StatusOK, w.Code, "Expected error status code")

	var errorResponse struct {
		Status  string `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	require.NoError(t, err, "Failed to unmarshal error response body")

	assert.Equal(t, "error", errorResponse.Status, "Expected status to be 'error'")
	assert.Equal(t, expectedCode, errorResponse.Code, "Incorrect error code")
	assert.NotEmpty(t, errorResponse.Message, "Expected non-empty error message")
}

func loginOrganizer(t *testing.T, handler http.Handler) string {
	t.Helper()
	w := doReq(t, handler, http.MethodPost, "/auth/login", map[string]interface{}{
		"username": "organizer",
		"password": organizerPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "Login failed: %s", w.Body.String())

	var token string
	decodeSuccessData(t, w, &token)
	require.NotEmpty(t, token)
	return token
}

func createCompetitionHttp(t *testing.T, handler http.Handler, organizerToken string) string {
	t.Helper()
	w := doReq(t, handler, http.MethodPost, "/competitions", map[string]interface{}{
		"title":              "HTTP Arena",
		"problemIds":         []interface{}{"haybales"},
		"defaultTokenBudget": 1000,
		"rules": map[string]interface{}{
			"tierScores":       map[string]interface{}{"bronze": 100, "silver": 200, "gold": 500, "platinum": 1000},
			"firstAcBonus":     50,
			"submissionTokens": 100,
		},
	}, organizerToken)
	require.Equal(t, http.StatusOK, w.Code, "Create failed: %s", w.Body.String())

	var comp contest.Competition
	decodeSuccessData(t, w, &comp)
	require.NotEmpty(t, comp.ID)
	return comp.ID
}

func registerParticipantHttp(t *testing.T, handler http.Handler, organizerToken, compID, name string) (string, string) {
	t.Helper()
	path := fmt.Sprintf("/competitions/%s/participants", compID)
	w := doReq(t, handler, http.MethodPost, path, map[string]interface{}{
		"name":   name,
		"apiKey": "sk-" + name,
	}, organizerToken)
	require.Equal(t, http.StatusOK, w.Code, "Registration failed: %s", w.Body.String())

	var resp struct {
		Participant contest.Participant `json:"participant"`
		Token       string              `json:"token"`
	}
	decodeSuccessData(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Participant.ID, resp.Token
}

func TestAuthLoginHttp(t *testing.T) {
	handler := newTestServer(t)

	token := loginOrganizer(t, handler)
	assert.NotEmpty(t, token)

	testCases := []struct {
		name      string
		loginData map[string]interface{}
	}{
		{
			name: "Wrong Password",
			loginData: map[string]interface{}{
				"username": "organizer",
				"password": "wrongpassword",
			},
		},
		{
			name: "Unknown Username",
			loginData: map[string]interface{}{
				"username": "intruder",
				"password": organizerPassword,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doReq(t, handler, http.MethodPost, "/auth/login", tc.loginData, "")
			assertErrorInHttpResponse(t, w, "invalid_credentials")
		})
	}
}

func TestCompetitionLifecycleHttp(t *testing.T) {
	handler := newTestServer(t)
	organizerToken := loginOrganizer(t, handler)
	compID := createCompetitionHttp(t, handler, organizerToken)
	participantID, agentToken := registerParticipantHttp(t, handler, organizerToken, compID, "alice")

	t.Run("state view", func(t *testing.T) {
		w := doReq(t, handler, http.MethodGet,
			fmt.Sprintf("/competitions/%s/state", compID), nil, agentToken)
		require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		var view contest.StateView
		decodeSuccessData(t, w, &view)
		assert.Equal(t, participantID, view.Participant.ID)
		assert.Len(t, view.Problems, 1)
		assert.NotContains(t, w.Body.String(), "sk-alice")
	})

	t.Run("problem sheet", func(t *testing.T) {
		w := doReq(t, handler, http.MethodGet,
			fmt.Sprintf("/competitions/%s/problems/haybales", compID), nil, agentToken)
		require.Equal(t, http.StatusOK, w.Code)

		var detail contest.ProblemDetail
		decodeSuccessData(t, w, &detail)
		assert.Equal(t, "Haybale Stacking", detail.Title)
		assert.Equal(t, 100, detail.MaxScore)
	})

	var submissionID string
	t.Run("submit", func(t *testing.T) {
		w := doReq(t, handler, http.MethodPost,
			fmt.Sprintf("/competitions/%s/submissions", compID), map[string]interface{}{
				"problemId": "haybales",
				"code":      "print(sum(map(int, input().split())))",
				"language":  "python3.12",
			}, agentToken)
		require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

		var subm contest.Submission
		decodeSuccessData(t, w, &subm)
		assert.Equal(t, contest.SubmissionAccepted, subm.Status)
		assert.Equal(t, 100, subm.PassScore)
		assert.Equal(t, 50, subm.BonusScore)
		submissionID = subm.ID
	})

	t.Run("read submission back", func(t *testing.T) {
		w := doReq(t, handler, http.MethodGet,
			fmt.Sprintf("/competitions/%s/submissions/%s", compID, submissionID), nil, agentToken)
		require.Equal(t, http.StatusOK, w.Code)

		var subm contest.Submission
		decodeSuccessData(t, w, &subm)
		assert.Equal(t, submissionID, subm.ID)
	})

	t.Run("hint", func(t *testing.T) {
		w := doReq(t, handler, http.MethodPost,
			fmt.Sprintf("/competitions/%s/hints", compID), map[string]interface{}{
				"problemId": "haybales",
				"level":     1,
			}, agentToken)
		require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		var hint contest.Hint
		decodeSuccessData(t, w, &hint)
		assert.Equal(t, "use prefix sums", hint.Content)
		assert.Equal(t, 500, hint.TokenCost)
	})

	t.Run("inference usage", func(t *testing.T) {
		w := doReq(t, handler, http.MethodPost,
			fmt.Sprintf("/competitions/%s/inference-usage", compID), map[string]interface{}{
				"model":        "sonnet",
				"inputTokens":  2000,
				"outputTokens": 1000,
			}, agentToken)
		require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		var receipt contest.UsageReceipt
		decodeSuccessData(t, w, &receipt)
		assert.Equal(t, 3, receipt.TokenCost)
	})

	t.Run("rankings", func(t *testing.T) {
		w := doReq(t, handler, http.MethodGet,
			fmt.Sprintf("/competitions/%s/rankings", compID), nil, agentToken)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []map[string]interface{}
		decodeSuccessData(t, w, &entries)
		require.Len(t, entries, 1)
		assert.Equal(t, float64(1), entries[0]["rank"])
	})

	// a second runner keeps the competition open past alice's exit
	registerParticipantHttp(t, handler, organizerToken, compID, "bob")

	t.Run("self-terminate", func(t *testing.T) {
		w := doReq(t, handler, http.MethodPost,
			fmt.Sprintf("/competitions/%s/terminate", compID), nil, agentToken)
		require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		var resp struct {
			TerminationReason string `json:"terminationReason"`
		}
		decodeSuccessData(t, w, &resp)
		assert.Equal(t, "competitor_terminated", resp.TerminationReason)
	})

	t.Run("submit after termination", func(t *testing.T) {
		w := doReq(t, handler, http.MethodPost,
			fmt.Sprintf("/competitions/%s/submissions", compID), map[string]interface{}{
				"problemId": "haybales",
				"code":      "print(0)",
				"language":  "python3.12",
			}, agentToken)
		assertErrorInHttpResponse(t, w, "participant_terminated")
	})
}

func TestHttpScopes(t *testing.T) {
	handler := newTestServer(t)
	organizerToken := loginOrganizer(t, handler)
	compID := createCompetitionHttp(t, handler, organizerToken)
	otherCompID := createCompetitionHttp(t, handler, organizerToken)
	_, agentToken := registerParticipantHttp(t, handler, organizerToken, compID, "alice")

	t.Run("anonymous create rejected", func(t *testing.T) {
		w := doReq(t, handler, http.MethodPost, "/competitions",
			map[string]interface{}{"title": "x"}, "")
		assertErrorInHttpResponse(t, w, "unauthorized")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("agent cannot administer", func(t *testing.T) {
		w := doReq(t, handler, http.MethodPost, "/competitions",
			map[string]interface{}{"title": "x"}, agentToken)
		assertErrorInHttpResponse(t, w, "forbidden")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("token bound to its competition", func(t *testing.T) {
		w := doReq(t, handler, http.MethodGet,
			fmt.Sprintf("/competitions/%s/state", otherCompID), nil, agentToken)
		assertErrorInHttpResponse(t, w, "forbidden")
	})

	t.Run("foreign submission unreadable", func(t *testing.T) {
		_, bobToken := registerParticipantHttp(t, handler, organizerToken, compID, "bob")
		w := doReq(t, handler, http.MethodPost,
			fmt.Sprintf("/competitions/%s/submissions", compID), map[string]interface{}{
				"problemId": "haybales",
				"code":      "print(3)",
				"language":  "python3.12",
			}, bobToken)
		require.Equal(t, http.StatusCreated, w.Code)
		var subm contest.Submission
		decodeSuccessData(t, w, &subm)

		w = doReq(t, handler, http.MethodGet,
			fmt.Sprintf("/competitions/%s/submissions/%s", compID, subm.ID), nil, agentToken)
		assertErrorInHttpResponse(t, w, "forbidden")
	})
}

func TestListLanguagesHttp(t *testing.T) {
	handler := newTestServer(t)

	w := doReq(t, handler, http.MethodGet, "/languages", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var langs []struct {
		ID       string `json:"id"`
		FullName string `json:"fullName"`
	}
	decodeSuccessData(t, w, &langs)
	require.Len(t, langs, 3)

	ids := make([]string, len(langs))
	for i, lang := range langs {
		ids[i] = lang.ID
	}
	assert.Contains(t, ids, "python3.12")
	assert.Contains(t, ids, "cpp17")
}

func TestCloseCompetitionHttp(t *testing.T) {
	handler := newTestServer(t)
	organizerToken := loginOrganizer(t, handler)
	compID := createCompetitionHttp(t, handler, organizerToken)
	_, agentToken := registerParticipantHttp(t, handler, organizerToken, compID, "alice")

	w := doReq(t, handler, http.MethodPost,
		fmt.Sprintf("/competitions/%s/close", compID), nil, organizerToken)
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	var comp contest.Competition
	decodeSuccessData(t, w, &comp)
	assert.Equal(t, contest.CompetitionClosed, comp.Status)

	w = doReq(t, handler, http.MethodPost,
		fmt.Sprintf("/competitions/%s/submissions", compID), map[string]interface{}{
			"problemId": "haybales",
			"code":      "print(3)",
			"language":  "python3.12",
		}, agentToken)
	assertErrorInHttpResponse(t, w, "competition_closed")
}
