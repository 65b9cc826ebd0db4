package github

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"ai-pr-reviewer/internal/config"
	"ai-pr-reviewer/internal/observability"

	"github.com/golang-jwt/jwt/v4"
)

const apiBase = "https://api.github.com"

type client struct {
	cfg    *config.Config
	logger *observability.Logger
	http   *http.Client
	cache  *tokenCache
}

func NewClient(cfg *config.Config, logger *observability.Logger) Client {
	return &client{
		cfg:    cfg,
		logger: logger,
		http:   &http.Client{Timeout: 15 * time.Second},
		cache:  &tokenCache{},
	}
}

// getToken prefers a personal token; otherwise it authenticates as a
// GitHub App and caches the installation token.
func (c *client) getToken(ctx context.Context) (string, error) {

	if c.cfg.GitHubToken != "" {
		return c.cfg.GitHubToken, nil
	}

	if t, ok := c.cache.Get(); ok {
		return t, nil
	}

	appJWT, err := c.createJWT()
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"%s/app/installations/%s/access_tokens",
		apiBase, c.cfg.GithubInstallationID,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("github token status %d: %s", res.StatusCode, string(msg))
	}

	var r struct {
		Token string `json:"token"`
	}

	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if r.Token == "" {
		return "", fmt.Errorf("empty installation token")
	}

	c.cache.Set(r.Token, 50*time.Minute)

	return r.Token, nil
}

func (c *client) GetPullRequest(ctx context.Context, repo string, pr int) (PRDetails, error) {

	var details PRDetails

	err := withRetry(3, func() error {

		token, err := c.getToken(ctx)
		if err != nil {
			return err
		}

		url := fmt.Sprintf("%s/repos/%s/pulls/%d", apiBase, repo, pr)

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return fmt.Errorf("build pr request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/vnd.github+json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode < 200 || res.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
			return fmt.Errorf("github pr status %d: %s", res.StatusCode, string(msg))
		}

		var out struct {
			Title string `json:"title"`
			Body  string `json:"body"`
			Head  struct {
				SHA string `json:"sha"`
			} `json:"head"`
		}

		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			return fmt.Errorf("decode pr response: %w", err)
		}

		details = PRDetails{
			Title:       out.Title,
			Description: out.Body,
			HeadSHA:     out.Head.SHA,
		}
		return nil
	})

	return details, err
}

func (c *client) GetDiff(ctx context.Context, repo string, pr int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d", apiBase, repo, pr)
	return c.fetchDiff(ctx, url)
}

func (c *client) CompareDiff(ctx context.Context, repo, base, head string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/compare/%s...%s", apiBase, repo, base, head)
	return c.fetchDiff(ctx, url)
}

func (c *client) fetchDiff(ctx context.Context, url string) (string, error) {

	var diff string

	err := withRetry(3, func() error {

		token, err := c.getToken(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return fmt.Errorf("build diff request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/vnd.github.diff")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode != 200 {
			msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
			return fmt.Errorf("github diff status %d: %s", res.StatusCode, string(msg))
		}

		b, err := io.ReadAll(res.Body)
		if err != nil {
			return fmt.Errorf("read diff response: %w", err)
		}

		diff = string(b)
		return nil
	})

	return diff, err
}

// CreateReview posts all comments as one grouped review action.
func (c *client) CreateReview(ctx context.Context, repo string, pr int, review Review) error {

	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/pulls/%d/reviews", apiBase, repo, pr)

	payload := map[string]any{
		"body":     review.Body,
		"event":    review.Event,
		"comments": review.Comments,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build review request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("github review status %d: %s", res.StatusCode, string(msg))
	}

	return nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("invalid pem")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}

	pkcs8, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	privateKey, ok := pkcs8.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("pkcs8 key is not RSA")
	}

	return privateKey, nil
}

func (c *client) createJWT() (string, error) {

	key, err := loadPrivateKey(c.cfg.GithubPrivateKeyPath)
	if err != nil {
		return "", err
	}

	now := time.Now()

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    c.cfg.GithubAppID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	return token.SignedString(key)
}
