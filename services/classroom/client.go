package classroomsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/session"
	"github.com/trezcool/classwork/core/user"
)

// Client maps each domain operation onto one API request.
type Client struct {
	baseURL    string
	timeout    time.Duration
	anon       *http.Client
	sess       *session.Store
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
}

// NewClient returns a Client talking to conf.API.BaseURL.
// Authenticated calls carry the token held by sess.
func NewClient(conf *core.Config, sess *session.Store, logger core.Logger) (*Client, error) {
	if _, err := url.ParseRequestURI(conf.API.BaseURL); err != nil {
		return nil, errors.Wrapf(err, "invalid API base URL %q", conf.API.BaseURL)
	}
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)

	return &Client{
		baseURL:    strings.TrimSuffix(conf.API.BaseURL, "/"),
		timeout:    conf.API.Timeout,
		anon:       &http.Client{Timeout: conf.API.Timeout},
		sess:       sess,
		validate:   validate,
		translator: translator,
		logger:     logger,
	}, nil
}

// requireRole fails locally when no one, or someone with another role, is logged in.
func (c *Client) requireRole(op operation, role user.Role) error {
	usr, ok := c.sess.User()
	if !ok {
		return op.unauthenticated()
	}
	if usr.Role != role {
		return &Error{Op: op.name, Kind: KindForbidden, Message: "Only " + string(role) + "s can do this."}
	}
	return nil
}

// bearerClient sends requests with token, the one a 401 will be blamed on.
func (c *Client) bearerClient(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Timeout:   c.timeout,
		Transport: &oauth2.Transport{Source: src},
	}
}

// send performs one request: in is JSON encoded when non-nil and a 2xx body
// is decoded into out when non-nil. Any failure is returned as an *Error.
func (c *Client) send(ctx context.Context, op operation, authenticated bool, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return op.faulty(0, errors.Wrap(err, "encoding request"))
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return op.faulty(0, errors.Wrap(err, "creating request"))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.anon
	var token string
	if authenticated {
		if token = c.sess.Token(); token == "" {
			return op.unauthenticated()
		}
		hc = c.bearerClient(token)
	}
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Warn(op.name+": no response", err)
		return op.unreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb) // non-JSON bodies fall back on status messages
		apiErr := op.responseError(resp.StatusCode, eb)
		if authenticated && resp.StatusCode == http.StatusUnauthorized {
			apiErr.Kind = KindAuthExpired
			if _, err := c.sess.ExpireIf(token); err != nil {
				c.logger.Error("expiring session", err)
			}
		}
		if apiErr.Kind == KindServerFault {
			c.logger.Error(op.name+": "+apiErr.Message, map[string]interface{}{"status": resp.StatusCode, "path": path})
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return op.faulty(resp.StatusCode, errors.Wrap(err, "decoding response"))
		}
	}
	return nil
}
