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

package cli

import (
	"context"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/vdistack/scout/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
			wantErr:    false,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
			wantErr:    false,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
			wantErr:    false,
		},
		{
			name:       "invalid format xml",
			format:     "xml",
			wantFormat: "",
			wantErr:    true,
		},
		{
			name:       "invalid format csv",
			format:     "csv",
			wantFormat: "",
			wantErr:    true,
		},
		{
			name:       "invalid format unknown",
			format:     "unknown",
			wantFormat: "",
			wantErr:    true,
		},
		{
			name:       "empty format",
			format:     "",
			wantFormat: "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a minimal CLI command with the format flag
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			// Run the command with the test format
			err := cmd.Run(context.Background(), []string{"test"})
			if err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestParseSiteQueryOptions(t *testing.T) {
	var captured *siteQueryOptions

	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "broker"},
			&cli.IntFlag{Name: "port"},
			&cli.DurationFlag{Name: "timeout"},
			&cli.StringFlag{Name: "config-root"},
			&cli.StringFlag{Name: "state-root"},
			&cli.StringFlag{Name: "token"},
			&cli.BoolFlag{Name: "insecure-tls"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			captured = parseSiteQueryOptions(c)
			return nil
		},
	}

	args := []string{
		"test",
		"--broker", "ddc01.acme.example",
		"--port", "9443",
		"--timeout", "3s",
		"--config-root", "/opt/vdistack/etc",
		"--state-root", "/opt/vdistack/state",
		"--token", "s3cret",
		"--insecure-tls",
	}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}

	if captured == nil {
		t.Fatal("expected parsed options")
	}
	if captured.broker != "ddc01.acme.example" {
		t.Errorf("broker = %q, want %q", captured.broker, "ddc01.acme.example")
	}
	if captured.port != 9443 {
		t.Errorf("port = %d, want 9443", captured.port)
	}
	if captured.timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", captured.timeout)
	}
	if captured.configRoot != "/opt/vdistack/etc" {
		t.Errorf("configRoot = %q, want %q", captured.configRoot, "/opt/vdistack/etc")
	}
	if captured.stateRoot != "/opt/vdistack/state" {
		t.Errorf("stateRoot = %q, want %q", captured.stateRoot, "/opt/vdistack/state")
	}
	if captured.token != "s3cret" {
		t.Errorf("token = %q, want %q", captured.token, "s3cret")
	}
	if !captured.insecureTLS {
		t.Error("insecureTLS = false, want true")
	}
}

func TestNewResolver(t *testing.T) {
	opts := &siteQueryOptions{
		broker:     "localhost",
		timeout:    time.Second,
		configRoot: t.TempDir(),
		stateRoot:  t.TempDir(),
	}

	if newResolver(opts) == nil {
		t.Error("expected non-nil resolver")
	}
}
