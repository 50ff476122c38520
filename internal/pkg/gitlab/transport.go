package gitlab

import (
	"context"
	"net/url"
	"strings"
	"time"

	"mrboard/internal/domain/mergerequest"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const apiPath = "/api/v4"

// Transport issues single timed requests against the GitLab REST API.
type Transport struct {
	rc      *resty.Client
	limiter *rate.Limiter
}

type TransportOptions struct {
	URL               string
	Token             string
	RequestsPerSecond float64
}

func NewTransport(o *TransportOptions) *Transport {
	rc := resty.New().
		SetHostURL(strings.TrimSuffix(o.URL, "/")+apiPath).
		SetAuthToken(o.Token).
		SetHeader("Content-Type", "application/json")

	t := &Transport{rc: rc}
	if o.RequestsPerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(o.RequestsPerSecond), 1)
	}

	return t
}

// Request GETs path and returns the parsed JSON body. The call is aborted
// after timeout, or as soon as ctx is done; the two cases are reported as
// a TimeoutError and ErrCancelled. No retries are made.
func (t *Transport) Request(
	ctx context.Context,
	path string,
	params url.Values,
	timeout time.Duration,
) (gjson.Result, error) {
	if ctx.Err() != nil {
		return gjson.Result{}, mergerequest.ErrCancelled
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if t.limiter != nil {
		if err := t.limiter.Wait(reqCtx); err != nil {
			if ctx.Err() != nil {
				return gjson.Result{}, mergerequest.ErrCancelled
			}
			return gjson.Result{}, &mergerequest.TimeoutError{Path: path, Timeout: timeout}
		}
	}

	start := time.Now()
	r, err := t.rc.R().
		SetContext(reqCtx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		return gjson.Result{}, classify(ctx, reqCtx, path, timeout, err)
	}

	log.WithFields(log.Fields{
		"path":   path,
		"status": r.StatusCode(),
		"took":   time.Since(start),
	}).Debug("gitlab request")

	if r.StatusCode() < 200 || r.StatusCode() > 299 {
		return gjson.Result{}, &mergerequest.UpstreamError{
			Path:       path,
			StatusCode: r.StatusCode(),
			Status:     r.Status(),
		}
	}

	body := r.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &mergerequest.UpstreamError{
			Path:       path,
			StatusCode: r.StatusCode(),
			Err:        errors.New("response body is not valid JSON"),
		}
	}

	return gjson.ParseBytes(body), nil
}

func classify(ctx, reqCtx context.Context, path string, timeout time.Duration, err error) error {
	if ctx.Err() != nil {
		return mergerequest.ErrCancelled
	}

	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return &mergerequest.TimeoutError{Path: path, Timeout: timeout}
	}

	return &mergerequest.UpstreamError{Path: path, Err: err}
}
