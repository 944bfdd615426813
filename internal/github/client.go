// Package github provides the GitHub operations behind the PR-override
// commands: looking up the merged pull request for a commit and appending a
// ticket reference to its body.
package github

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/releasetrain/tracelink/internal/config"
	"github.com/releasetrain/tracelink/internal/logging"
)

const defaultAPIBase = "https://api.github.com"

// Client performs GitHub API operations against a single repository.
// Authentication is either a personal/installation token or GitHub App
// credentials (JWT exchanged for an installation token, cached until close
// to expiry).
type Client struct {
	cfg     config.GitHubConfig
	owner   string
	repo    string
	apiBase string

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a client for the repository named in cfg. The repository
// may be "owner/repo" or an HTTPS/SSH remote URL.
func NewClient(cfg config.GitHubConfig) (*Client, error) {
	if cfg.Token == "" && !cfg.HasApp() {
		return nil, fmt.Errorf("github: no token or App credentials configured")
	}
	owner, repo, err := ParseRepo(cfg.Repository)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, owner: owner, repo: repo, apiBase: defaultAPIBase}, nil
}

// PullRequest is the slice of the GitHub PR resource these commands read.
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Merged  bool   `json:"merged"`
	HTMLURL string `json:"html_url"`
	Head    struct {
		Ref string `json:"ref"`
	} `json:"head"`
	MergedAt *time.Time `json:"merged_at"`
}

// HeadBranch returns the PR's source branch name.
func (pr *PullRequest) HeadBranch() string { return pr.Head.Ref }

// FindPRForCommit returns the first merged pull request associated with a
// commit, or nil when the commit reached the branch without one.
func (c *Client) FindPRForCommit(sha string) (*PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s/pulls", c.apiBase, c.owner, c.repo, sha)

	var prs []*PullRequest
	if err := c.do("GET", url, nil, http.StatusOK, &prs); err != nil {
		return nil, fmt.Errorf("list pulls for commit %s: %w", sha, err)
	}

	for _, pr := range prs {
		if pr.Merged || pr.MergedAt != nil {
			return pr, nil
		}
	}
	return nil, nil
}

// GetPR fetches a pull request by number.
func (c *Client) GetPR(number int) (*PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiBase, c.owner, c.repo, number)

	var pr PullRequest
	if err := c.do("GET", url, nil, http.StatusOK, &pr); err != nil {
		return nil, fmt.Errorf("get PR #%d: %w", number, err)
	}
	return &pr, nil
}

// UpdatePRBody replaces the body of a pull request.
func (c *Client) UpdatePRBody(number int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiBase, c.owner, c.repo, number)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	if err := c.do("PATCH", url, payload, http.StatusOK, nil); err != nil {
		return fmt.Errorf("update PR #%d: %w", number, err)
	}
	return nil
}

func (c *Client) do(method, url string, body []byte, wantStatus int, out any) error {
	token, err := c.getToken()
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("GitHub API error: %d - %s", resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// getToken returns the configured token, or a valid App installation token,
// refreshing it when it nears expiry.
func (c *Client) getToken() (string, error) {
	if c.cfg.Token != "" {
		return c.cfg.Token, nil
	}

	c.mu.RLock()
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-5*time.Minute)) {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-5*time.Minute)) {
		return c.token, nil
	}

	jwtToken, err := c.generateJWT()
	if err != nil {
		return "", fmt.Errorf("generate JWT: %w", err)
	}

	token, expiry, err := c.exchangeForInstallationToken(jwtToken)
	if err != nil {
		return "", err
	}

	c.token = token
	c.tokenExpiry = expiry

	logging.Debug("refreshed GitHub App installation token",
		"app_id", c.cfg.AppID,
		"expires", expiry.Format(time.RFC3339))

	return token, nil
}

// generateJWT creates a signed JWT for GitHub App authentication.
func (c *Client) generateJWT() (string, error) {
	keyData, err := os.ReadFile(c.cfg.PrivateKeyPath)
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := parseRSAPrivateKey(keyData)
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)), // Clock skew buffer
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),  // Max 10 minutes
		Issuer:    c.cfg.AppID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("sign JWT: %w", err)
	}
	return signedToken, nil
}

// exchangeForInstallationToken exchanges a JWT for an installation token.
func (c *Client) exchangeForInstallationToken(jwtToken string) (string, time.Time, error) {
	url := fmt.Sprintf("%s/app/installations/%s/access_tokens", c.apiBase, c.cfg.InstallationID)

	req, err := http.NewRequest("POST", url, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+jwtToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return "", time.Time{}, fmt.Errorf("get installation token: %d - %s", resp.StatusCode, string(body))
	}

	var result struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", time.Time{}, fmt.Errorf("parse response: %w", err)
	}
	return result.Token, result.ExpiresAt, nil
}

// parseRSAPrivateKey parses a PEM-encoded RSA private key in PKCS#1 or
// PKCS#8 format.
func parseRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("decode PEM block failed")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return rsaKey, nil
}

// ParseRepo extracts owner and repo from an "owner/repo" pair or an
// HTTPS/SSH remote URL.
func ParseRepo(s string) (owner, repo string, err error) {
	if s == "" {
		return "", "", fmt.Errorf("github repository not configured")
	}

	path := s
	switch {
	case strings.HasPrefix(s, "git@github.com:"):
		path = strings.TrimPrefix(s, "git@github.com:")
	case strings.HasPrefix(s, "https://github.com/"):
		path = strings.TrimPrefix(s, "https://github.com/")
	}
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: want owner/repo or a github.com remote URL", s)
	}
	return parts[0], parts[1], nil
}
