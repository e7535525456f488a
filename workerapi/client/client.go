// Package client talks to contacts over the HTTP/JSON protocol in workerapi.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/domain"
	"github.com/benchly/dispatch/workerapi"
)

const (
	DefaultTimeout = 30 * time.Second
	// Total attempts for idempotent requests (0 and 1 both mean 1 try total).
	DefaultHttpTries = 3
)

// Client is the dispatcher's view of a contact. Every failure, including
// transport failures and malformed bodies, is a *workerapi.ServerAccessError.
type Client interface {
	FetchStatus(ctx context.Context, endpoint string) (*domain.StatusReport, error)
	SubmitJob(ctx context.Context, endpoint string, job *domain.Job) error
	FetchJob(ctx context.Context, endpoint string, jobID int64) (*workerapi.Job, error)
	CancelJob(ctx context.Context, endpoint string, jobID int64) (*workerapi.Job, error)
	DeleteJobData(ctx context.Context, endpoint string, jobID int64) (*workerapi.Job, error)
}

// Doer is satisfied by *pester.Client and *http.Client.
type Doer interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

type Config struct {
	Timeout   time.Duration
	HttpTries int
	// Requests per second across all contacts, 0 is unlimited.
	RateLimit float64
}

// MakePesterClient returns a client retrying with exponential backoff.
// Pester retries on transport errors and 5xx, then hands back the last response.
func MakePesterClient(tries int, timeout time.Duration) *pester.Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = tries
	client.Timeout = timeout
	client.KeepLog = false
	client.LogHook = func(e pester.ErrEntry) {
		log.WithFields(log.Fields{
			"method":  e.Method,
			"url":     e.URL,
			"attempt": e.Attempt,
			"err":     e.Err,
		}).Info("Retrying after failed attempt")
	}
	return client
}

// NewHTTPClient makes a Client with separate retrying and single-shot transports.
func NewHTTPClient(cfg Config, stat stats.StatsReceiver) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HttpTries <= 0 {
		cfg.HttpTries = DefaultHttpTries
	}
	return NewCustomHTTPClient(
		MakePesterClient(cfg.HttpTries, cfg.Timeout),
		MakePesterClient(1, cfg.Timeout),
		MakeLimiter(cfg.RateLimit),
		stat)
}

// NewCustomHTTPClient is used by tests to plug in their own transports.
// idempotent serves GET and DELETE, once serves POST.
func NewCustomHTTPClient(idempotent, once Doer, limiter *rate.Limiter, stat stats.StatsReceiver) Client {
	if limiter == nil {
		limiter = MakeLimiter(0)
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &httpClient{
		idempotent: idempotent,
		once:       once,
		limiter:    limiter,
		stat:       stat.Scope("remote"),
	}
}

func MakeLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

type httpClient struct {
	idempotent Doer
	once       Doer
	limiter    *rate.Limiter
	stat       stats.StatsReceiver
}

// ContactURL appends elems to the endpoint's own path, keeping any prefix.
func ContactURL(endpoint string, elems ...string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", workerapi.WrapServerAccessError(err, "Invalid contact endpoint '%s'", endpoint)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", workerapi.NewServerAccessError(0, "Invalid contact endpoint '%s'", endpoint)
	}
	u.Path = path.Join(append([]string{"/", u.Path}, elems...)...)
	return u.String(), nil
}

func jobPath(jobID int64) string {
	return strconv.FormatInt(jobID, 10)
}

func (c *httpClient) FetchStatus(ctx context.Context, endpoint string) (*domain.StatusReport, error) {
	var wire workerapi.StatusReport
	status, msg, err := c.call(ctx, c.idempotent, http.MethodGet, endpoint, nil, &wire, workerapi.StatusPath)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, workerapi.NewServerAccessError(status, "Unable to get status from server, message: %s", msg)
	}
	return workerapi.WireReportToDomain(&wire)
}

func (c *httpClient) SubmitJob(ctx context.Context, endpoint string, job *domain.Job) error {
	status, msg, err := c.call(ctx, c.once, http.MethodPost, endpoint, workerapi.DomainJobToWire(job), nil, workerapi.JobsPath)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return workerapi.NewServerAccessError(status, "Job was rejected for processing with message: %s", msg)
	default:
		return workerapi.NewServerAccessError(status, "Unexpected response on job submittal, message: %s", msg)
	}
}

func (c *httpClient) FetchJob(ctx context.Context, endpoint string, jobID int64) (*workerapi.Job, error) {
	return c.jobCall(ctx, c.idempotent, http.MethodGet, endpoint, "Unable to fetch job", workerapi.JobsPath, jobPath(jobID))
}

func (c *httpClient) CancelJob(ctx context.Context, endpoint string, jobID int64) (*workerapi.Job, error) {
	return c.jobCall(ctx, c.once, http.MethodPost, endpoint, "Unable to cancel job", workerapi.JobsPath, jobPath(jobID), workerapi.CancelAction)
}

func (c *httpClient) DeleteJobData(ctx context.Context, endpoint string, jobID int64) (*workerapi.Job, error) {
	return c.jobCall(ctx, c.idempotent, http.MethodDelete, endpoint, "Unable to delete job data", workerapi.JobsPath, jobPath(jobID))
}

func (c *httpClient) jobCall(ctx context.Context, doer Doer, method, endpoint, what string, elems ...string) (*workerapi.Job, error) {
	var job workerapi.Job
	status, msg, err := c.call(ctx, doer, method, endpoint, nil, &job, elems...)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, workerapi.NewServerAccessError(status, "%s, message: %s", what, msg)
	}
	return &job, nil
}

// call issues one logical request. On 200 the body is decoded into out, on
// any other status the {message} of the body is returned instead.
func (c *httpClient) call(
	ctx context.Context, doer Doer, method, endpoint string, in, out interface{}, elems ...string,
) (int, string, error) {
	uri, err := ContactURL(endpoint, elems...)
	if err != nil {
		return 0, "", err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, "", workerapi.WrapServerAccessError(err, "Request '%s %s' not sent", method, uri)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, "", workerapi.WrapServerAccessError(err, "Unable to encode request for '%s'", uri)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, uri, body)
	if err != nil {
		return 0, "", workerapi.WrapServerAccessError(err, "Unable to build request for '%s'", uri)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.stat.Counter(stats.RemoteRequestCounter).Inc(1)
	defer c.stat.Latency(stats.RemoteRequestLatency_ms).Time().Stop()

	log.Debugf("%s %s", method, uri)
	resp, err := doer.Do(req)
	if err != nil {
		c.stat.Counter(stats.RemoteRequestErrCounter).Inc(1)
		return 0, "", workerapi.WrapServerAccessError(err, "Error on request '%s %s'", method, uri)
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		c.stat.Counter(stats.RemoteRequestErrCounter).Inc(1)
		return 0, "", workerapi.WrapServerAccessError(err, "Error reading response of '%s %s'", method, uri)
	}
	log.Debugf("%s %s -> %s", method, uri, resp.Status)

	if resp.StatusCode != http.StatusOK {
		c.stat.Counter(stats.RemoteRequestErrCounter).Inc(1)
		return resp.StatusCode, parseMessage(data, resp.Status), nil
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return 0, "", workerapi.WrapServerAccessError(err, "Malformed response of '%s %s'", method, uri)
		}
	}
	return resp.StatusCode, "", nil
}

// parseMessage falls back to the status line when the body carries no message.
func parseMessage(data []byte, status string) string {
	var m workerapi.SimpleMessage
	if err := json.Unmarshal(data, &m); err != nil || m.Message == "" {
		return fmt.Sprintf("<%s>", status)
	}
	return m.Message
}
