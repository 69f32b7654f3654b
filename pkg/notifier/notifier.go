// Package notifier reports the outcome of a run to the tracking backend
package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/global"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
)

type notifier struct {
	requests core.Requests
	endpoint string
	logger   lumber.Logger
}

// New returns new Notifier posting to host
func New(requests core.Requests, host string, logger lumber.Logger) core.Notifier {
	return &notifier{
		requests: requests,
		logger:   logger,
		endpoint: strings.TrimRight(host, "/") + global.PullRequestOpenedPath,
	}
}

func (n *notifier) Notify(ctx context.Context, payload *core.NotificationPayload) error {
	n.logger.Debugf("sending result of pull request %s by %s, success: %t", payload.PullNumber, payload.GithubLogin, payload.IsTestsSuccess)
	reqBody, err := json.Marshal(payload)
	if err != nil {
		n.logger.Errorf("error while json marshal %v", err)
		return errs.ErrNotify.Wrap(err)
	}
	headers := map[string]string{"Content-Type": global.JSONContentType}
	if _, _, err := n.requests.MakeAPIRequest(ctx, http.MethodPost, n.endpoint, reqBody, nil, headers); err != nil {
		return errs.ErrNotify.Wrap(err)
	}
	n.logger.Infof("tracking backend notified about pull request %s", payload.PullNumber)
	return nil
}
