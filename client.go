package semaphore

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	UserAgent = "InteractiveSolutions/GoSemaphore-1.0"

	DefaultAPIBase    = "https://api.semaphore.co/api/v4/"
	DefaultSenderName = "Gemango"
	DefaultTimeout    = 30 * time.Second

	redacted = "REDACTED"
)

// singleAttemptKey marks requests that must reach the gateway at most once.
type singleAttemptKey struct{}

// Config holds the credentials and defaults used for every request.
type Config struct {
	APIKey     string
	SenderName string
	APIBase    string
}

type ClientOption func(c *Client)

// SetSenderName overrides the sender name from the config. Empty names are ignored.
func SetSenderName(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.senderName = name
		}
	}
}

func SetLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func SetHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client.HTTPClient = client
	}
}

// SetRetryMax enables retries of failed queries. Requests are not retried by
// default and sends are never retried, a retried POST may deliver the sms twice.
func SetRetryMax(count int) ClientOption {
	return func(c *Client) {
		c.client.RetryMax = count
	}
}

func SetDispatchRepo(repo DispatchRepository) ClientOption {
	return func(c *Client) {
		c.dispatchRepo = repo
	}
}

func SetMetrics(metrics *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// Client talks to the Semaphore SMS gateway. It is safe for concurrent use.
type Client struct {
	logger logrus.FieldLogger
	client *retryablehttp.Client

	base       *url.URL
	apiKey     string
	senderName string

	dispatchRepo DispatchRepository
	metrics      *Metrics
}

var _ Gateway = (*Client)(nil)

func NewClient(config Config, options ...ClientOption) (*Client, error) {
	c := &Client{
		logger: logrus.New(),
		client: retryablehttp.NewClient(),

		apiKey:     config.APIKey,
		senderName: config.SenderName,
	}

	c.client.RetryMax = 0
	c.client.HTTPClient.Timeout = DefaultTimeout
	c.client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.client.CheckRetry = checkRetry

	for _, option := range options {
		option(c)
	}

	c.client.Logger = &leveledLogger{logger: c.logger, redact: c.redact}

	if c.senderName == "" {
		c.senderName = DefaultSenderName
	}

	apiBase := config.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}

	base, err := url.Parse(apiBase)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid api base %q", apiBase)
	}

	if !base.IsAbs() {
		return nil, errors.Errorf("Api base %q must be an absolute url", apiBase)
	}

	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c.base = base

	return c, nil
}

// SenderName returns the name messages are sent from.
func (c *Client) SenderName() string {
	return c.senderName
}

// Balance checks the balance of the account.
func (c *Client) Balance(ctx context.Context) (Response, error) {
	return c.get(ctx, "balance", "account")
}

// Send sends message to recipient, a single number or a comma separated list
// of at most MaxRecipients numbers. Numbers are normalized with NormalizeNumber.
func (c *Client) Send(ctx context.Context, recipient, message string) (Response, error) {
	recipients := ParseRecipients(recipient)
	if len(recipients) > MaxRecipients {
		c.metrics.reject("send")
		return Response{}, TooManyRecipientsErr
	}

	numbers := NormalizeNumbers(recipients)

	form := url.Values{
		"apikey":     {c.apiKey},
		"message":    {message},
		"number":     {strings.Join(numbers, ",")},
		"sendername": {c.senderName},
	}

	response, err := c.do(ctx, "send", http.MethodPost, "messages", form)

	c.recordDispatch(numbers, message, response, err)

	return response, err
}

func (c *Client) Account(ctx context.Context) (Response, error) {
	return c.get(ctx, "account", "account")
}

// Users lists the users associated with the account.
func (c *Client) Users(ctx context.Context) (Response, error) {
	return c.get(ctx, "users", "account/users")
}

// SenderNames lists the sender names registered on the account.
func (c *Client) SenderNames(ctx context.Context) (Response, error) {
	return c.get(ctx, "sendernames", "account/sendernames")
}

// Transactions lists the transactions of the account.
func (c *Client) Transactions(ctx context.Context) (Response, error) {
	return c.get(ctx, "transactions", "account/transactions")
}

func (c *Client) get(ctx context.Context, operation, path string) (Response, error) {
	return c.do(ctx, operation, http.MethodGet, path, nil)
}

func (c *Client) endpoint(path string) string {
	u := c.base.ResolveReference(&url.URL{Path: path})

	query := u.Query()
	query.Set("apikey", c.apiKey)
	u.RawQuery = query.Encode()

	return u.String()
}

func (c *Client) do(ctx context.Context, operation, method, path string, form url.Values) (response Response, err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(operation, err, time.Since(start))
	}()

	var body interface{}
	if form != nil {
		body = []byte(form.Encode())
	}

	if method != http.MethodGet {
		ctx = context.WithValue(ctx, singleAttemptKey{}, true)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return response, errors.Wrapf(c.redactError(err), "Failed to create %s request for %s", method, path)
	}

	req.Header.Set("User-Agent", UserAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}

		return response, errors.Wrapf(c.redactError(err), "Failed to %s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response, errors.Wrapf(err, "Failed to read response of %s %s", method, path)
	}

	response = Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}

	c.logger.
		WithField("operation", operation).
		WithField("status", resp.StatusCode).
		Debug("semaphore request completed")

	if resp.StatusCode >= 300 || resp.StatusCode <= 199 {
		return response, &StatusError{Method: method, Path: path, Response: response}
	}

	return response, nil
}

func (c *Client) recordDispatch(numbers []string, message string, response Response, sendErr error) {
	if c.dispatchRepo == nil {
		return
	}

	dispatch := &Dispatch{
		Uuid:       uuid.New(),
		SenderName: c.senderName,
		Recipients: numbers,
		Message:    message,
		StatusCode: response.StatusCode,
		Response:   response.String(),
		CreatedAt:  time.Now(),
	}

	if sendErr != nil {
		dispatch.Error = sendErr.Error()
	}

	if err := c.dispatchRepo.Create(dispatch); err != nil {
		c.logger.
			WithField("dispatch", dispatch.Uuid).
			WithError(err).
			Error("failed to store dispatch")
	}
}

// redact replaces the api key in s.
func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}

	s = strings.ReplaceAll(s, url.QueryEscape(c.apiKey), redacted)
	return strings.ReplaceAll(s, c.apiKey, redacted)
}

// redactError strips the api key from the request url carried by transport errors.
func (c *Client) redactError(err error) error {
	urlErr, ok := err.(*url.Error)
	if !ok {
		return err
	}

	return &url.Error{
		Op:  urlErr.Op,
		URL: c.redact(urlErr.URL),
		Err: urlErr.Err,
	}
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if single, _ := ctx.Value(singleAttemptKey{}).(bool); single {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
