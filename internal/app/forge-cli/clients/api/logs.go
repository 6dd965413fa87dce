package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

// OpenLogStream opens the deployment log endpoint and returns its body unread.
// The caller owns the body and must close it; cancelling ctx aborts the stream.
func (c *Client) OpenLogStream(
	ctx context.Context,
	project, deploymentID string,
	opts LogOptions,
) (io.ReadCloser, error) {
	if err := validate(project, deploymentID); err != nil {
		return nil, err
	}
	if opts.Tail <= 0 {
		return nil, ErrInvalidTail
	}

	query := url.Values{}
	if opts.Follow {
		query.Set("follow", "true")
	}
	query.Set("tail", strconv.Itoa(opts.Tail))
	endpoint := deploymentPath(project, deploymentID) + "/logs?" + query.Encode()

	req, err := c.prepareRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	streamClient := c.StreamClient
	if streamClient == nil {
		streamClient = c.HTTPClient
	}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "Failed to open log stream")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		return nil, eris.Wrap(newHTTPError(resp), "Failed to open log stream")
	}
	return resp.Body, nil
}
