package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPackages(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v3/test-series/packages": `{
			"data": {"packages": [
				{"_id": "p1", "title": "Mains Pack", "tests": [
					{"_id": "t1", "title": "Mock 1"},
					{"_id": "t2", "title": "Mock 2"}
				]},
				{"_id": "p2", "title": "Empty Pack", "tests": []}
			]}
		}`,
	})
	client := NewHTTPClient(srv.URL, "test-token")

	packages, err := client.FetchPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, packages, 2)
	assert.Equal(t, "p1", packages[0].ID)
	assert.Equal(t, "Mains Pack", packages[0].Name)
	require.Len(t, packages[0].Tests, 2)
	assert.Equal(t, "t1", packages[0].Tests[0].ProviderTestID)
	assert.Equal(t, "Mock 1", packages[0].Tests[0].Name)
	assert.Empty(t, packages[1].Tests)
}

func TestFetchAttempts(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v3/tests/t1/attempts": `{
			"data": {"attempts": [
				{"_id": "a1", "user": {"_id": "u1", "name": "Asha"}},
				{"_id": "a2", "user": {"_id": "u2", "name": "Ravi"}}
			]}
		}`,
	})
	client := NewHTTPClient(srv.URL, "test-token")

	attempts, err := client.FetchAttempts(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "a1", attempts[0].ProviderAttemptID)
	assert.Equal(t, "u1", attempts[0].AccountID)
	assert.Equal(t, "Asha", attempts[0].Username)
}

func TestFetchScoreOverview(t *testing.T) {
	t.Run("full overview", func(t *testing.T) {
		srv := newTestServer(t, map[string]string{
			"/api/v3/attempts/a1/score-overview": `{
				"data": {"totalScore": 184.5, "maxScore": 300, "rank": 12, "percentile": 97.4}
			}`,
		})
		client := NewHTTPClient(srv.URL, "test-token")

		ov, err := client.FetchScoreOverview(context.Background(), "a1")
		require.NoError(t, err)
		require.NotNil(t, ov)
		assert.Equal(t, 184.5, ov.TotalScore)
		assert.Equal(t, 300.0, ov.MaxScore)
		require.NotNil(t, ov.Rank)
		assert.Equal(t, 12, *ov.Rank)
		require.NotNil(t, ov.Percentile)
		assert.Equal(t, 97.4, *ov.Percentile)
	})

	t.Run("404 means no overview, not an error", func(t *testing.T) {
		srv := newTestServer(t, map[string]string{})
		client := NewHTTPClient(srv.URL, "test-token")

		ov, err := client.FetchScoreOverview(context.Background(), "missing")
		assert.NoError(t, err)
		assert.Nil(t, ov)
	})

	t.Run("payload without totalScore means no overview", func(t *testing.T) {
		srv := newTestServer(t, map[string]string{
			"/api/v3/attempts/a1/score-overview": `{"data": {}}`,
		})
		client := NewHTTPClient(srv.URL, "test-token")

		ov, err := client.FetchScoreOverview(context.Background(), "a1")
		assert.NoError(t, err)
		assert.Nil(t, ov)
	})
}

func TestFetchResponses(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v3/attempts/a1/responses": `{
			"data": {"questions": [
				{"_id": "q1", "correctAnswer": "b", "type": "MCQ",
				 "marks": {"positive": 4, "negative": 1},
				 "studentAnswer": "a", "timeTaken": 42},
				{"_id": "q2", "correctAnswer": "4-6", "type": "NAT",
				 "marks": {"positive": 4, "negative": 0},
				 "studentAnswer": null, "timeTaken": null}
			]}
		}`,
	})
	client := NewHTTPClient(srv.URL, "test-token")

	responses, err := client.FetchResponses(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.Equal(t, "q1", responses[0].ProviderQuestionID)
	assert.Equal(t, "b", responses[0].CorrectAnswer)
	assert.Equal(t, "MCQ", responses[0].QuestionType)
	assert.Equal(t, 4.0, responses[0].MarksPositive)
	assert.Equal(t, 1.0, responses[0].MarksNegative)
	require.NotNil(t, responses[0].StudentAnswer)
	assert.Equal(t, "a", *responses[0].StudentAnswer)
	require.NotNil(t, responses[0].TimeTakenSec)
	assert.Equal(t, 42, *responses[0].TimeTakenSec)

	// JSON null answer stays nil, it is not an empty string.
	assert.Nil(t, responses[1].StudentAnswer)
	assert.Nil(t, responses[1].TimeTakenSec)
}

func TestGetErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	client := NewHTTPClient(srv.URL, "test-token")

	_, err := client.FetchPackages(context.Background())
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.True(t, IsTransient(err))
}
