// Package prmanager is used for reading and commenting on the pull request under test
package prmanager

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"
)

// maxCommentSize is GitHub's limit for comment body size.
const maxCommentSize = 65536

type prManager struct {
	client *github.Client
	logger lumber.Logger
}

// New creates a PullRequestManager authenticated with the configured token.
// An empty GithubAPIURL talks to api.github.com.
func New(ctx context.Context, cfg *config.CheckConfig, logger lumber.Logger) (core.PullRequestManager, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = cfg.HTTPTimeout

	client := github.NewClient(httpClient)
	if cfg.GithubAPIURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.GithubAPIURL, cfg.GithubAPIURL)
		if err != nil {
			logger.Errorf("invalid github api url %s: %v", cfg.GithubAPIURL, err)
			return nil, err
		}
	}
	return NewWithClient(client, logger), nil
}

// NewWithClient wraps an already configured github client
func NewWithClient(client *github.Client, logger lumber.Logger) core.PullRequestManager {
	return &prManager{client: client, logger: logger}
}

func (pm *prManager) GetPullRequest(ctx context.Context, owner, repo string, number int) (*core.PullRequestInfo, error) {
	pm.logger.Debugf("fetching pull request %s/%s#%d", owner, repo, number)
	pr, resp, err := pm.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, classify(resp, err)
	}
	if pr.GetUser().GetLogin() == "" {
		return nil, errs.ErrGitHubTransport.Wrapf("pull request %s/%s#%d has no author", owner, repo, number)
	}

	return &core.PullRequestInfo{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		AuthorLogin: pr.GetUser().GetLogin(),
		HTMLURL:     pr.GetHTMLURL(),
		CreatedAt:   pr.GetCreatedAt().Time,
		UpdatedAt:   pr.GetUpdatedAt().Time,
	}, nil
}

func (pm *prManager) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	if len(body) > maxCommentSize {
		pm.logger.Warnf("comment body of %d bytes exceeds the github limit, truncating", len(body))
		body = strings.ToValidUTF8(body[:maxCommentSize], "")
	}
	comment, resp, err := pm.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return classify(resp, err)
	}
	pm.logger.Infof("comment created: %s", comment.GetHTMLURL())
	return nil
}

// classify maps a failed github call onto the error kinds of the run
func classify(resp *github.Response, err error) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return errs.ErrGitHubTransport.Wrap(err)
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errs.ErrGitHubAuth.Wrap(err)
		case http.StatusNotFound:
			return errs.ErrPullRequestNotFound.Wrap(err)
		}
	}
	return errs.ErrGitHubTransport.Wrap(err)
}
