package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// AuthTokenHeader carries the AIMS bearer token on every outbound request.
const AuthTokenHeader = "x-aims-auth-token"

var log = logrus.WithField("component", "aims")

// Session authenticates against the AIMS service and stores the resulting
// token and account identity. Authentication happens lazily: the first Sign
// or AccountID call on an unauthenticated session triggers it, and it runs
// at most once unless Authenticate is called explicitly. A Session is safe
// for concurrent use; the lazy transition is guarded by a mutex.
type Session struct {
	cfg               Config
	globalEndpointURL string
	errorOnStatus     bool
	http              *http.Client

	mu          sync.Mutex
	token       string
	accountID   string
	accountName string
}

// Option configures session construction.
type Option func(*sessionOptions)

type sessionOptions struct {
	cfg           Config
	errorOnStatus bool
	httpClient    *http.Client
}

// WithAccessKey sets the access key id and secret key used to authenticate.
func WithAccessKey(id, secret string) Option {
	return func(o *sessionOptions) {
		o.cfg.AccessKeyID = id
		o.cfg.SecretKey = secret
	}
}

// WithToken supplies a pre-obtained AIMS token. The session starts
// authenticated and the access key pair is never used for signing.
func WithToken(token string) Option {
	return func(o *sessionOptions) {
		o.cfg.Token = token
	}
}

// WithAccountID pins the account id instead of taking it from the
// authenticate response.
func WithAccountID(id string) Option {
	return func(o *sessionOptions) {
		o.cfg.AccountID = id
	}
}

// WithProfile selects the config file section used for credential lookup.
func WithProfile(name string) Option {
	return func(o *sessionOptions) {
		o.cfg.Profile = name
	}
}

// WithGlobalEndpoint selects the global endpoint, "production" or
// "integration".
func WithGlobalEndpoint(name string) Option {
	return func(o *sessionOptions) {
		o.cfg.GlobalEndpoint = name
	}
}

// WithResidency sets the data residency tag: "default", "us" or "emea".
func WithResidency(tag string) Option {
	return func(o *sessionOptions) {
		o.cfg.Residency = tag
	}
}

// WithErrorOnStatus controls whether Request returns an *HTTPError for
// non-2xx responses (default true) or hands back the raw response only.
func WithErrorOnStatus(enabled bool) Option {
	return func(o *sessionOptions) {
		o.errorOnStatus = enabled
	}
}

// WithHTTPClient overrides the HTTP client used for all calls. The default
// client retries 502/503 responses with exponential backoff.
func WithHTTPClient(client *http.Client) Option {
	return func(o *sessionOptions) {
		o.httpClient = client
	}
}

// NewSession resolves credentials and endpoint settings (explicit options,
// then AIMSCTL_* environment variables, then the profile config file) and
// returns a session ready to authenticate on first use.
func NewSession(opts ...Option) (*Session, error) {
	o := sessionOptions{errorOnStatus: true}
	for _, fn := range opts {
		fn(&o)
	}

	cfg, err := ResolveConfig(o.cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:               cfg,
		globalEndpointURL: GlobalEndpointURL(cfg.GlobalEndpoint),
		errorOnStatus:     o.errorOnStatus,
		http:              o.httpClient,
		token:             cfg.Token,
		accountID:         cfg.AccountID,
	}
	if s.http == nil {
		s.http = newRetryClient(1*time.Second, 30*time.Second)
	}
	return s, nil
}

// newRetryClient builds the transport shared by authenticate, directory
// lookups and generic dispatch: 5 total attempts, exponential backoff,
// retrying only 502 and 503.
func newRetryClient(waitMin, waitMax time.Duration) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 4
	rc.RetryWaitMin = waitMin
	rc.RetryWaitMax = waitMax
	rc.Logger = nil
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return false, err
		}
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable:
			return true, nil
		}
		return false, nil
	}
	return rc.StandardClient()
}

type authResponse struct {
	Authentication struct {
		Token   string `json:"token"`
		Account struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"account"`
	} `json:"authentication"`
}

// Authenticate performs the AIMS authenticate call unconditionally,
// overwriting any previously held token and account identity.
func (s *Session) Authenticate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticate(ctx)
}

// authenticate must be called with s.mu held. Session state is only
// mutated after the whole response validates, so a malformed body leaves
// no partial identity behind.
func (s *Session) authenticate(ctx context.Context) error {
	if s.cfg.AccessKeyID == "" || s.cfg.SecretKey == "" {
		return authError(nil, "access key id and secret key are not configured")
	}

	log.Infof("Authenticating '%s' user against '%s' endpoint", s.cfg.AccessKeyID, s.globalEndpointURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.globalEndpointURL+"/aims/v1/authenticate", nil)
	if err != nil {
		return authError(err, "failed to build authenticate request: %v", err)
	}
	req.SetBasicAuth(s.cfg.AccessKeyID, s.cfg.SecretKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return authError(err, "invalid http response %v", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return authError(nil, "invalid http response %s", resp.Status)
	}

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return authError(err, "malformed authentication response: %v", err)
	}

	if body.Authentication.Token == "" {
		return authError(nil, "token not found in response")
	}
	if s.accountID == "" && body.Authentication.Account.ID == "" {
		return authError(nil, "account id not found in response")
	}
	if body.Authentication.Account.Name == "" {
		return authError(nil, "account name not found in response")
	}

	s.token = body.Authentication.Token
	if s.accountID == "" {
		s.accountID = body.Authentication.Account.ID
	}
	s.accountName = body.Authentication.Account.Name
	return nil
}

// Sign is the pluggable auth callback for outbound requests: it
// authenticates the session if no token is held yet, then attaches the
// token header. The request is otherwise left untouched.
func (s *Session) Sign(req *http.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		if err := s.authenticate(req.Context()); err != nil {
			return err
		}
	}
	req.Header.Set(AuthTokenHeader, s.token)
	return nil
}

// ensureAuthenticated performs the lazy authenticate transition without a
// request to sign.
func (s *Session) ensureAuthenticated(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return s.authenticate(ctx)
	}
	return nil
}

// RequestOption customizes a single generic request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	params  url.Values
	headers http.Header
	cookies []*http.Cookie
	body    io.Reader
}

// WithParams appends query parameters to the request URL.
func WithParams(params url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range params {
			for _, v := range vs {
				o.params.Add(k, v)
			}
		}
	}
}

// WithParam appends a single query parameter.
func WithParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.params.Add(key, value)
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Add(key, value)
	}
}

// WithCookie attaches a cookie to the request.
func WithCookie(c *http.Cookie) RequestOption {
	return func(o *requestOptions) {
		o.cookies = append(o.cookies, c)
	}
}

// WithBody sets the request body.
func WithBody(r io.Reader) RequestOption {
	return func(o *requestOptions) {
		o.body = r
	}
}

// Request dispatches a generic HTTP call with the current token attached.
// It does NOT trigger authentication: an unauthenticated session sends an
// empty token header, matching the identity service contract for anonymous
// calls. With error-on-status enabled a non-2xx response is returned
// together with an *HTTPError; otherwise the raw response is returned and
// the status is the caller's problem.
func (s *Session) Request(ctx context.Context, method, rawURL string, opts ...RequestOption) (*http.Response, error) {
	o := requestOptions{
		params:  url.Values{},
		headers: http.Header{},
	}
	for _, fn := range opts {
		fn(&o)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, o.body)
	if err != nil {
		return nil, err
	}
	if len(o.params) > 0 {
		q := req.URL.Query()
		for k, vs := range o.params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	for k, vs := range o.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range o.cookies {
		req.AddCookie(c)
	}
	req.Header.Set(AuthTokenHeader, s.Token())

	log.Debugf("Calling '%s' method, URL: '%s'", method, req.URL)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}

	log.Debugf("'%s' method for URL '%s' returned '%d' status code", method, req.URL, resp.StatusCode)

	if s.errorOnStatus && !is2xx(resp.StatusCode) {
		return resp, &HTTPError{
			Method:     method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}
	return resp, nil
}

// GetURL queries the endpoint directory and returns the base URL for a
// service. When accountID is empty the session's own account id is used,
// authenticating first if necessary.
func (s *Session) GetURL(ctx context.Context, service, accountID string) (string, error) {
	if accountID == "" {
		id, err := s.AccountID(ctx)
		if err != nil {
			return "", err
		}
		accountID = id
	}

	lookup := EndpointLookupURL(s.globalEndpointURL, service, accountID, s.cfg.Residency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return "", authError(err, "failed to build endpoint lookup request: %v", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", authError(err, "invalid http response from endpoints service %v", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return "", authError(nil, "invalid http response from endpoints service %s", resp.Status)
	}

	var hosts map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&hosts); err != nil {
		return "", authError(err, "malformed response from endpoints service: %v", err)
	}
	host, ok := hosts[service]
	if !ok || host == "" {
		return "", authError(nil, "no endpoint found for service '%s'", service)
	}
	return "https://" + host, nil
}

// AccountID returns the session's account id, authenticating first when it
// is still unknown. Note that this triggers authentication even when a
// token was supplied at construction without an account id.
func (s *Session) AccountID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountID == "" {
		if err := s.authenticate(ctx); err != nil {
			return "", err
		}
	}
	return s.accountID, nil
}

// AccountName returns the account name from the last authenticate call, or
// an empty string when the session never authenticated.
func (s *Session) AccountName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountName
}

// Token returns the current token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Residency returns the session's data residency tag.
func (s *Session) Residency() string {
	return s.cfg.Residency
}

// GlobalEndpoint returns the global endpoint name, e.g. "production".
func (s *Session) GlobalEndpoint() string {
	return s.cfg.GlobalEndpoint
}

// GlobalEndpointURL returns the resolved global API root.
func (s *Session) GlobalEndpointURL() string {
	return s.globalEndpointURL
}

// Profile returns the profile name the session resolved its config from.
func (s *Session) Profile() string {
	return s.cfg.Profile
}

// Client returns a per-service client routed through this session.
func (s *Session) Client(service string, opts ...ClientOption) *Client {
	return NewClient(service, s, opts...)
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}
