/*
Copyright © 2025 Vdistack Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// hasFlag reports whether the command declares a flag with the given name.
func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

func TestIdentityCmdShape(t *testing.T) {
	cmd := identityCmd()

	if cmd.Name != "identity" {
		t.Errorf("Name = %q, want %q", cmd.Name, "identity")
	}
	if cmd.Action == nil {
		t.Error("expected non-nil Action")
	}

	for _, flag := range []string{
		"broker", "port", "timeout", "config-root", "state-root",
		"token", "insecure-tls", "output", "format",
	} {
		if !hasFlag(cmd, flag) {
			t.Errorf("missing flag %q", flag)
		}
	}
}

func TestIdentityCmdInvalidFormat(t *testing.T) {
	err := identityCmd().Run(context.Background(), []string{"identity", "--format", "bogus"})

	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("error = %v, want unknown output format", err)
	}
}

func TestIdentityCmdResolvesController(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/site" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"EMEA-Prod"}`))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "identity.json")
	args := []string{
		"identity",
		"--broker", u.Hostname(),
		"--port", u.Port(),
		"--insecure-tls",
		"--timeout", "5s",
		"--config-root", t.TempDir(),
		"--state-root", t.TempDir(),
		"--output", outPath,
		"--format", "json",
	}

	if err := identityCmd().Run(context.Background(), args); err != nil {
		t.Fatalf("identity command failed: %v", err)
	}

	doc := readIdentityDocument(t, outPath)
	if doc.Identity.Role != "Controller" {
		t.Errorf("role = %q, want Controller", doc.Identity.Role)
	}
	if doc.Identity.SiteName != "EMEA-Prod" {
		t.Errorf("siteName = %q, want EMEA-Prod", doc.Identity.SiteName)
	}
	if !strings.HasPrefix(doc.BundleName, "EMEA-Prod_DDC_") {
		t.Errorf("bundleName = %q, want EMEA-Prod_DDC_ prefix", doc.BundleName)
	}
	if doc.Kind != "Identity" {
		t.Errorf("kind = %q, want Identity", doc.Kind)
	}
}

func TestIdentityCmdFallsBackWhenUnreachable(t *testing.T) {
	port := closedPort(t)

	outPath := filepath.Join(t.TempDir(), "identity.json")
	args := []string{
		"identity",
		"--broker", "127.0.0.1",
		"--port", port,
		"--timeout", "2s",
		"--config-root", t.TempDir(),
		"--state-root", t.TempDir(),
		"--output", outPath,
		"--format", "json",
	}

	if err := identityCmd().Run(context.Background(), args); err != nil {
		t.Fatalf("identity command failed: %v", err)
	}

	// No broker, no registration, no mirror: the generic agent identity.
	doc := readIdentityDocument(t, outPath)
	if doc.Identity.Role != "Agent" {
		t.Errorf("role = %q, want Agent", doc.Identity.Role)
	}
	if doc.Identity.SiteName != "VDA" {
		t.Errorf("siteName = %q, want VDA", doc.Identity.SiteName)
	}
	if !strings.HasPrefix(doc.BundleName, "VDA_VDA_") {
		t.Errorf("bundleName = %q, want VDA_VDA_ prefix", doc.BundleName)
	}
}

// identityOutput mirrors the printed document for assertions.
type identityOutput struct {
	Kind     string `json:"kind"`
	Identity struct {
		Role     string `json:"role"`
		SiteName string `json:"siteName"`
	} `json:"identity"`
	BundleName string `json:"bundleName"`
}

func readIdentityDocument(t *testing.T, path string) *identityOutput {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var doc identityOutput
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	return &doc
}

// closedPort returns a port on which nothing is listening.
func closedPort(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	_, port, err := net.SplitHostPort(ln.Addr().String())
	ln.Close()
	if err != nil {
		t.Fatalf("failed to split address: %v", err)
	}
	return port
}
