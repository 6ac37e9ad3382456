// Copyright (c) 2025, Vdistack Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package broker implements the client side of the controller site API.
// A controller (broker) answers GET /api/v1/site with the name of the site
// it serves; this package wraps that call with the transport, trust, and
// failure classification scout needs.
//
// Every query is a single attempt with one short deadline. Callers that
// walk a list of candidate addresses decide what a failure means; the
// client only classifies it (unreachable, no site, unauthorized, other).
package broker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/vdistack/scout/pkg/defaults"
	scerrors "github.com/vdistack/scout/pkg/errors"
	"github.com/vdistack/scout/pkg/kvfile"
	"github.com/vdistack/scout/pkg/logging"
)

// sitePath is the controller endpoint that reports the configured site.
const sitePath = "/api/v1/site"

// Client configuration file (under the config root) and its keys.
const (
	clientConfigFile      = "broker.conf"
	keyPort               = "Port"
	keyCACertFile         = "CACertFile"
	keyInsecureSkipVerify = "InsecureSkipVerify"
)

// Option configures the Client.
type Option func(*Client)

// WithPort sets the controller API port, overriding the client
// configuration file. Default is defaults.BrokerPort.
func WithPort(port int) Option {
	return func(c *Client) {
		c.port = port
		c.portSet = true
	}
}

// WithTimeout sets the total deadline for one query.
// Default is defaults.QueryTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConfigPath overrides the client configuration file location.
// Default is defaults.ConfigRoot/broker.conf.
func WithConfigPath(path string) Option {
	return func(c *Client) {
		c.configPath = path
	}
}

// WithConfigRoot points the client at broker.conf under dir.
// Default is defaults.ConfigRoot.
func WithConfigRoot(dir string) Option {
	return func(c *Client) {
		if d := strings.TrimSpace(dir); d != "" {
			c.configPath = filepath.Join(d, clientConfigFile)
		}
	}
}

// WithTokenSource sets the bearer token source for query authentication.
// Without one, queries are sent unauthenticated.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLocalAddress overrides the address targeted by local self-queries
// (queries with an empty remote address). Default is
// defaults.LocalBrokerAddress.
func WithLocalAddress(addr string) Option {
	return func(c *Client) {
		if a := strings.TrimSpace(addr); a != "" {
			c.localAddr = a
		}
	}
}

// WithInsecureTLS disables server certificate verification, overriding the
// client configuration file.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) {
		c.insecure = insecure
		c.insecureSet = true
	}
}

// Client queries controllers for their site name over HTTPS.
// The zero value is not usable; create clients with NewClient.
type Client struct {
	configPath  string
	port        int
	portSet     bool
	insecure    bool
	insecureSet bool
	caFile      string
	localAddr   string
	timeout     time.Duration
	tokens      TokenSource

	initOnce sync.Once
	initErr  error
	http     *retryablehttp.Client
}

// NewClient creates a site query client with the provided options.
// The local client surface (configuration file, trust material) is loaded
// lazily on first use; Probe forces that load.
func NewClient(opts ...Option) *Client {
	c := &Client{
		configPath: filepath.Join(defaults.ConfigRoot, clientConfigFile),
		port:       defaults.BrokerPort,
		localAddr:  defaults.LocalBrokerAddress,
		timeout:    defaults.QueryTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe verifies that the local client surface is usable: the configuration
// file, when present, must be readable and well formed, and any configured
// trust material must load. A missing configuration file is normal and
// leaves the defaults in place. Probe never touches the network.
func (c *Client) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ensureInit()
}

// Query asks a controller which site it serves and returns the site name.
// An empty remoteAddr targets the broker service on this host. The call
// makes exactly one attempt bounded by the client timeout; the returned
// error carries a classification code for observability.
func (c *Client) Query(ctx context.Context, remoteAddr string) (string, error) {
	if err := c.ensureInit(); err != nil {
		return "", err
	}

	addr := strings.TrimSpace(remoteAddr)
	if addr == "" {
		addr = c.localAddr
	}

	qctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := "https://" + net.JoinHostPort(addr, strconv.Itoa(c.port)) + sitePath
	req, err := retryablehttp.NewRequestWithContext(qctx, http.MethodGet, u, nil)
	if err != nil {
		return "", scerrors.Wrap(scerrors.ErrCodeInvalidRequest, "invalid site query request", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, terr := c.tokens.Token()
		switch {
		case terr != nil:
			slog.Debug("no broker token available", "error", terr.Error())
		case token != "":
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyTransportError(addr, err)
	}
	defer resp.Body.Close()

	slog.Debug("site query answered",
		"address", addr,
		"status", resp.StatusCode,
		"elapsed", time.Since(start).String(),
	)

	switch {
	case resp.StatusCode == http.StatusOK:
		return parseSiteResponse(addr, resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		return "", scerrors.NewWithContext(scerrors.ErrCodeNoSite,
			"controller reports no site configured",
			map[string]any{"address": addr})
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", scerrors.NewWithContext(scerrors.ErrCodeUnauthorized,
			"site query rejected",
			map[string]any{"address": addr, "status": resp.StatusCode})
	default:
		return "", scerrors.NewWithContext(scerrors.ErrCodeInternal,
			"unexpected site query status",
			map[string]any{"address": addr, "status": resp.StatusCode})
	}
}

// siteResponse is the controller's answer on the site endpoint.
type siteResponse struct {
	Name string `json:"name"`
	UID  string `json:"uid,omitempty"`
}

func parseSiteResponse(addr string, body io.Reader) (string, error) {
	var site siteResponse
	if err := json.NewDecoder(io.LimitReader(body, 1<<16)).Decode(&site); err != nil {
		return "", scerrors.WrapWithContext(scerrors.ErrCodeInternal,
			"malformed site query response", err,
			map[string]any{"address": addr})
	}

	name := strings.TrimSpace(site.Name)
	if name == "" {
		return "", scerrors.NewWithContext(scerrors.ErrCodeNoSite,
			"controller reports an unnamed site",
			map[string]any{"address": addr})
	}
	return name, nil
}

// ensureInit loads the client configuration and builds the HTTP transport
// exactly once. The stored error is what Probe reports.
func (c *Client) ensureInit() error {
	c.initOnce.Do(func() {
		c.initErr = c.init()
	})
	return c.initErr
}

func (c *Client) init() error {
	if err := c.loadConfig(); err != nil {
		return err
	}

	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	if c.insecure {
		tlsCfg.InsecureSkipVerify = true
	}
	if c.caFile != "" {
		pem, err := os.ReadFile(c.caFile)
		if err != nil {
			return scerrors.WrapWithContext(scerrors.ErrCodeAccessDenied,
				"trust material not readable", err,
				map[string]any{"path": c.caFile})
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return scerrors.NewWithContext(scerrors.ErrCodeInternal,
				"trust material contains no certificates",
				map[string]any{"path": c.caFile})
		}
		tlsCfg.RootCAs = pool
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSClientConfig:       tlsCfg,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
	}

	rc := retryablehttp.NewClient()
	// One attempt per address: the resolution chain treats a dead
	// controller as an answer, not something to retry.
	rc.RetryMax = 0
	rc.HTTPClient = &http.Client{
		Timeout:   c.timeout,
		Transport: transport,
	}
	rc.Logger = logging.NewLogLogger(slog.LevelDebug, false)

	c.http = rc
	return nil
}

// loadConfig reads the client configuration file. Absence is fine; any
// other failure makes the client surface unusable.
func (c *Client) loadConfig() error {
	parser := kvfile.NewParser(kvfile.WithVTrimChars(`"'`))
	values, err := parser.GetMap(c.configPath)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("no broker client configuration, using defaults", "path", c.configPath)
			return nil
		case errors.Is(err, fs.ErrPermission):
			return scerrors.WrapWithContext(scerrors.ErrCodeAccessDenied,
				"broker client configuration not readable", err,
				map[string]any{"path": c.configPath})
		default:
			return scerrors.WrapWithContext(scerrors.ErrCodeInternal,
				"broker client configuration unusable", err,
				map[string]any{"path": c.configPath})
		}
	}

	if v, ok := values[keyPort]; ok && !c.portSet {
		port, perr := strconv.Atoi(v)
		if perr != nil || port < 1 || port > 65535 {
			return scerrors.NewWithContext(scerrors.ErrCodeInternal,
				"broker client configuration has an invalid port",
				map[string]any{"path": c.configPath, "value": v})
		}
		c.port = port
	}

	if v, ok := values[keyInsecureSkipVerify]; ok && !c.insecureSet {
		insecure, perr := strconv.ParseBool(v)
		if perr != nil {
			return scerrors.NewWithContext(scerrors.ErrCodeInternal,
				"broker client configuration has an invalid flag",
				map[string]any{"path": c.configPath, "key": keyInsecureSkipVerify, "value": v})
		}
		c.insecure = insecure
	}

	if v, ok := values[keyCACertFile]; ok {
		c.caFile = v
	}

	return nil
}

// classifyTransportError maps request failures onto the query taxonomy.
// Deadline expiry and connection failures both mean the controller could
// not be reached; the distinct codes are kept for observability only.
func classifyTransportError(addr string, err error) error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return scerrors.WrapWithContext(scerrors.ErrCodeTimeout,
			"site query timed out", err,
			map[string]any{"address": addr})
	}
	return scerrors.WrapWithContext(scerrors.ErrCodeUnreachable,
		fmt.Sprintf("controller %s unreachable", addr), err,
		map[string]any{"address": addr})
}
