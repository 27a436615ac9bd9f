// Package siriust implements an authenticated scraping client for
// siriust.ru: login with the site's auth form, then walk the profile,
// wishlist and product pages of the logged-in account.
package siriust

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"siriust-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/siriust")

var LoginFailed = fmt.Errorf("Failed to log into your account.")
var ErrNotAuthenticated = fmt.Errorf("not logged in, call Login first")

// the site never returns an error body on a bad login, the only
// success signal is this session cookie appearing in the jar
const sessionCookieName = "cp_email"

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}

// Client holds one authenticated session. it is not safe for
// concurrent use.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	authenticated bool
}

type ClientOptions struct {
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	c := &Client{BaseUrl: baseUrl}
	c.Http, err = c.newSession()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) newSession() (*resty.Client, error) {
	client := resty.New()
	client.SetBaseURL(c.BaseUrl.String())

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "*/*")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.BaseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return client, nil
}

func hasSessionCookie(session *resty.Client, baseUrl *url.URL) bool {
	for _, cookie := range session.GetClient().Jar.Cookies(baseUrl) {
		if cookie.Name == sessionCookieName {
			return true
		}
	}
	return false
}

// Login posts the credentials to the site's auth endpoint. success is
// detected purely by the presence of the session cookie afterwards.
// the client's previous session is only replaced on success, so a
// failed login leaves an already-authenticated client usable. there is
// no automatic retry, retrying with different credentials is the
// caller's decision.
func (c *Client) Login(ctx context.Context, email, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	session, err := c.newSession()
	if err != nil {
		return err
	}

	_, err = session.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"user_login":           email,
			"password":             password,
			"return_url":           "index.php?dispatch=auth.login_form",
			"redirect_url":         "index.php?dispatch=auth.login_form",
			"dispatch[auth.login]": "",
		}).
		Post("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post login form")
		return err
	}

	if !hasSessionCookie(session, c.BaseUrl) {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return LoginFailed
	}

	c.Http = session
	c.authenticated = true
	return nil
}
