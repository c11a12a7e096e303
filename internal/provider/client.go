package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Client is the read side of the provider API used by the sync pipeline.
type Client interface {
	FetchPackages(ctx context.Context) ([]Package, error)
	FetchAttempts(ctx context.Context, providerTestID string) ([]Attempt, error)
	// FetchScoreOverview returns (nil, nil) when the provider holds no score
	// overview for the attempt; that is a normal state, not an error.
	FetchScoreOverview(ctx context.Context, providerAttemptID string) (*ScoreOverview, error)
	FetchResponses(ctx context.Context, providerAttemptID string) ([]Response, error)
}

// StatusError carries the HTTP status of a failed provider call so the retry
// policy can classify it.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d for %s", e.Code, e.URL)
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string) Client {
	return &httpClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpClient) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed for %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response for %s: %w", url, err)
	}
	return body, nil
}

func (c *httpClient) FetchPackages(ctx context.Context) ([]Package, error) {
	body, err := c.get(ctx, "/api/v3/test-series/packages?limit=10000")
	if err != nil {
		return nil, err
	}

	var packages []Package
	gjson.GetBytes(body, "data.packages").ForEach(func(_, p gjson.Result) bool {
		pkg := Package{
			ID:   p.Get("_id").String(),
			Name: p.Get("title").String(),
		}
		p.Get("tests").ForEach(func(_, t gjson.Result) bool {
			pkg.Tests = append(pkg.Tests, PackageTest{
				ProviderTestID: t.Get("_id").String(),
				Name:           t.Get("title").String(),
			})
			return true
		})
		packages = append(packages, pkg)
		return true
	})
	log.Debug().Int("packages", len(packages)).Msg("Fetched provider package catalog")
	return packages, nil
}

func (c *httpClient) FetchAttempts(ctx context.Context, providerTestID string) ([]Attempt, error) {
	body, err := c.get(ctx, "/api/v3/tests/"+providerTestID+"/attempts?limit=10000")
	if err != nil {
		return nil, err
	}

	var attempts []Attempt
	gjson.GetBytes(body, "data.attempts").ForEach(func(_, a gjson.Result) bool {
		attempts = append(attempts, Attempt{
			ProviderAttemptID: a.Get("_id").String(),
			AccountID:         a.Get("user._id").String(),
			Username:          a.Get("user.name").String(),
		})
		return true
	})
	return attempts, nil
}

func (c *httpClient) FetchScoreOverview(ctx context.Context, providerAttemptID string) (*ScoreOverview, error) {
	body, err := c.get(ctx, "/api/v3/attempts/"+providerAttemptID+"/score-overview")
	if err != nil {
		if se, ok := err.(*StatusError); ok && se.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() || !data.Get("totalScore").Exists() {
		return nil, nil
	}

	ov := &ScoreOverview{
		TotalScore: data.Get("totalScore").Float(),
		MaxScore:   data.Get("maxScore").Float(),
	}
	if r := data.Get("rank"); r.Exists() {
		rank := int(r.Int())
		ov.Rank = &rank
	}
	if p := data.Get("percentile"); p.Exists() {
		pct := p.Float()
		ov.Percentile = &pct
	}
	return ov, nil
}

func (c *httpClient) FetchResponses(ctx context.Context, providerAttemptID string) ([]Response, error) {
	body, err := c.get(ctx, "/api/v3/attempts/"+providerAttemptID+"/responses?limit=10000")
	if err != nil {
		return nil, err
	}

	var responses []Response
	gjson.GetBytes(body, "data.questions").ForEach(func(_, q gjson.Result) bool {
		r := Response{
			ProviderQuestionID: q.Get("_id").String(),
			CorrectAnswer:      q.Get("correctAnswer").String(),
			QuestionType:       q.Get("type").String(),
			MarksPositive:      q.Get("marks.positive").Float(),
			MarksNegative:      q.Get("marks.negative").Float(),
		}
		if sa := q.Get("studentAnswer"); sa.Exists() && sa.Type != gjson.Null {
			answer := sa.String()
			r.StudentAnswer = &answer
		}
		if tt := q.Get("timeTaken"); tt.Exists() && tt.Type != gjson.Null {
			sec := int(tt.Int())
			r.TimeTakenSec = &sec
		}
		responses = append(responses, r)
		return true
	})
	return responses, nil
}
