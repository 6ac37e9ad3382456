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

package scout

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vdistack/scout/pkg/collector"
	"github.com/vdistack/scout/pkg/header"
	"github.com/vdistack/scout/pkg/identity"
	"github.com/vdistack/scout/pkg/report"
	"github.com/vdistack/scout/pkg/serializer"

	"gopkg.in/yaml.v3"
)

func TestNewManifest(t *testing.T) {
	man := NewManifest()

	if man == nil {
		t.Fatal("NewManifest() returned nil")
		return
	}

	if man.Records == nil {
		t.Error("Records should be initialized")
	}

	if len(man.Records) != 0 {
		t.Errorf("Records length = %d, want 0", len(man.Records))
	}
}

func TestManifest_Init(t *testing.T) {
	man := NewManifest()
	man.Init(header.KindManifest, FullAPIVersion, "1.0.0")

	if man.Kind != header.KindManifest {
		t.Errorf("Kind = %s, want %s", man.Kind, header.KindManifest)
	}

	if man.APIVersion != FullAPIVersion {
		t.Errorf("APIVersion = %s, want %s", man.APIVersion, FullAPIVersion)
	}

	if man.Metadata == nil {
		t.Error("Metadata should be initialized")
	}
}

func TestRunner_Run(t *testing.T) {
	t.Run("with mock factory", func(t *testing.T) {
		factory := &mockFactory{}
		outDir := t.TempDir()
		runner := &Runner{
			Version: "1.0.0",
			Factory: factory,
			Resolver: &stubResolver{id: identity.SiteIdentity{
				Role:     identity.RoleController,
				SiteName: "EMEA-Prod",
			}},
			OutputDir: outDir,
			HostName:  "ddc01",
		}

		result, err := runner.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
		if result == nil {
			t.Fatal("Run() returned nil result")
		}

		if !factory.hostCalled {
			t.Error("Host collector not called")
		}
		if !factory.servicesCalled {
			t.Error("Service collector not called")
		}
		if !factory.logsCalled {
			t.Error("Log collector not called")
		}
		if factory.stagingDir == "" {
			t.Error("Log collector should receive a staging directory")
		}

		if !strings.HasPrefix(result.BundleName, "EMEA-Prod_DDC_ddc01_") {
			t.Errorf("BundleName = %q, want EMEA-Prod_DDC_ddc01_ prefix", result.BundleName)
		}
		if !strings.HasSuffix(result.BundleName, "_ScoutData") {
			t.Errorf("BundleName = %q, want _ScoutData suffix", result.BundleName)
		}

		if result.Records != 3 {
			t.Errorf("Records = %d, want 3", result.Records)
		}
		if result.Checksum == "" {
			t.Error("Checksum should not be empty")
		}
		if result.Elapsed <= 0 {
			t.Error("Elapsed should be positive")
		}

		if _, err := os.Stat(result.BundlePath); err != nil {
			t.Errorf("bundle archive not written: %v", err)
		}
		if _, err := os.Stat(result.ChecksumPath); err != nil {
			t.Errorf("checksum sidecar not written: %v", err)
		}
	})

	t.Run("bundle contains manifest", func(t *testing.T) {
		outDir := t.TempDir()
		runner := &Runner{
			Version: "1.0.0",
			Factory: &mockFactory{},
			Resolver: &stubResolver{id: identity.SiteIdentity{
				Role:     identity.RoleAgent,
				SiteName: "Acme",
			}},
			OutputDir: outDir,
			HostName:  "vda042",
		}

		result, err := runner.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}

		man := readManifestFromBundle(t, result.BundlePath)

		if man.Kind != header.KindManifest {
			t.Errorf("manifest Kind = %s, want %s", man.Kind, header.KindManifest)
		}
		if man.APIVersion != FullAPIVersion {
			t.Errorf("manifest APIVersion = %s, want %s", man.APIVersion, FullAPIVersion)
		}
		if man.Identity.Role != identity.RoleAgent || man.Identity.SiteName != "Acme" {
			t.Errorf("manifest Identity = %+v, want Agent/Acme", man.Identity)
		}
		if len(man.Records) != 3 {
			t.Errorf("manifest records = %d, want 3", len(man.Records))
		}
		if man.Metadata["run-id"] == "" {
			t.Error("manifest should carry a run-id")
		}
		if man.Metadata["source-host"] != "vda042" {
			t.Errorf("manifest source-host = %q, want vda042", man.Metadata["source-host"])
		}
		if man.Metadata["bundle"] != result.BundleName {
			t.Errorf("manifest bundle = %q, want %q", man.Metadata["bundle"], result.BundleName)
		}
	})

	t.Run("handles collector errors", func(t *testing.T) {
		factory := &mockFactory{
			hostError: fmt.Errorf("host error"),
		}
		outDir := t.TempDir()
		runner := &Runner{
			Version:   "1.0.0",
			Factory:   factory,
			Resolver:  &stubResolver{id: identity.SiteIdentity{Role: identity.RoleAgent, SiteName: "Acme"}},
			OutputDir: outDir,
			HostName:  "vda042",
		}

		result, err := runner.Run(context.Background())
		if err == nil {
			t.Error("Run() should return error when collector fails")
		}
		if result != nil {
			t.Error("Run() should not return a result on failure")
		}

		entries, err := os.ReadDir(outDir)
		if err != nil {
			t.Fatalf("failed to list output dir: %v", err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".zip") {
				t.Errorf("no bundle should be written on failure, found %s", e.Name())
			}
		}
	})

	t.Run("with nil factory uses default", func(t *testing.T) {
		runner := &Runner{
			Version:   "1.0.0",
			Factory:   nil, // Will use default
			Resolver:  &stubResolver{id: identity.SiteIdentity{Role: identity.RoleAgent, SiteName: "Acme"}},
			OutputDir: t.TempDir(),
			HostName:  "vda042",
		}

		_, err := runner.Run(context.Background())

		// The default factory needs real system resources, so the run may
		// fail in constrained environments. We only verify the default wiring.
		if runner.Factory == nil {
			t.Error("Factory should be set to default when nil")
		}
		if err != nil {
			t.Logf("Run with default factory failed (expected in constrained environments): %v", err)
		}
	})

	t.Run("keeps staging directory when asked", func(t *testing.T) {
		factory := &mockFactory{}
		runner := &Runner{
			Version:     "1.0.0",
			Factory:     factory,
			Resolver:    &stubResolver{id: identity.SiteIdentity{Role: identity.RoleAgent, SiteName: "Acme"}},
			OutputDir:   t.TempDir(),
			HostName:    "vda042",
			KeepStaging: true,
		}

		if _, err := runner.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
		t.Cleanup(func() { os.RemoveAll(factory.stagingDir) })

		man, err := serializer.FromFile[Manifest](filepath.Join(factory.stagingDir, manifestFile))
		if err != nil {
			t.Fatalf("staging directory should survive the run with a readable manifest: %v", err)
		}
		if man.Kind != header.KindManifest {
			t.Errorf("staged manifest Kind = %s, want %s", man.Kind, header.KindManifest)
		}
	})

	t.Run("removes staging directory by default", func(t *testing.T) {
		factory := &mockFactory{}
		runner := &Runner{
			Version:   "1.0.0",
			Factory:   factory,
			Resolver:  &stubResolver{id: identity.SiteIdentity{Role: identity.RoleAgent, SiteName: "Acme"}},
			OutputDir: t.TempDir(),
			HostName:  "vda042",
		}

		if _, err := runner.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}

		if _, err := os.Stat(factory.stagingDir); !os.IsNotExist(err) {
			t.Errorf("staging directory should be removed after the run, stat err = %v", err)
		}
	})

	t.Run("writes metrics file", func(t *testing.T) {
		metricsFile := filepath.Join(t.TempDir(), "scout.prom")
		runner := &Runner{
			Version:     "1.0.0",
			Factory:     &mockFactory{},
			Resolver:    &stubResolver{id: identity.SiteIdentity{Role: identity.RoleAgent, SiteName: "Acme"}},
			OutputDir:   t.TempDir(),
			HostName:    "vda042",
			MetricsFile: metricsFile,
		}

		if _, err := runner.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}

		content, err := os.ReadFile(metricsFile)
		if err != nil {
			t.Fatalf("metrics file not written: %v", err)
		}
		if !strings.Contains(string(content), "scout_bundle_collection_total") {
			t.Error("metrics file should contain bundle collection counters")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		runner := &Runner{
			Version:   "1.0.0",
			Factory:   &mockFactory{},
			Resolver:  &stubResolver{id: identity.SiteIdentity{Role: identity.RoleAgent, SiteName: "Acme"}},
			OutputDir: t.TempDir(),
			HostName:  "vda042",
		}

		if _, err := runner.Run(ctx); err == nil {
			t.Error("Run() should fail with a canceled context")
		}
	})
}

// readManifestFromBundle extracts and decodes manifest.yaml from the archive.
func readManifestFromBundle(t *testing.T, bundlePath string) *Manifest {
	t.Helper()

	zr, err := zip.OpenReader(bundlePath)
	if err != nil {
		t.Fatalf("failed to open bundle: %v", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != manifestFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open manifest entry: %v", err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("failed to read manifest entry: %v", err)
		}

		var man Manifest
		if err := yaml.Unmarshal(content, &man); err != nil {
			t.Fatalf("failed to decode manifest: %v", err)
		}
		return &man
	}

	t.Fatalf("bundle %s has no %s entry", bundlePath, manifestFile)
	return nil
}

// Mock implementations for testing

type stubResolver struct {
	id identity.SiteIdentity
}

func (s *stubResolver) Resolve(ctx context.Context) identity.SiteIdentity {
	return s.id
}

type mockFactory struct {
	hostCalled     bool
	servicesCalled bool
	logsCalled     bool
	stagingDir     string

	hostError     error
	servicesError error
	logsError     error
}

func (m *mockFactory) CreateHostCollector() collector.Collector {
	m.hostCalled = true
	return &mockCollector{category: report.CategoryHost, err: m.hostError}
}

func (m *mockFactory) CreateServiceCollector() collector.Collector {
	m.servicesCalled = true
	return &mockCollector{category: report.CategoryServices, err: m.servicesError}
}

func (m *mockFactory) CreateLogCollector(stagingDir string) collector.Collector {
	m.logsCalled = true
	m.stagingDir = stagingDir
	return &mockCollector{category: report.CategoryLogs, err: m.logsError}
}

type mockCollector struct {
	category report.Category
	err      error
}

func (m *mockCollector) Collect(ctx context.Context) (*report.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	return report.NewRecord(m.category).
		WithSectionBuilder(report.NewSectionBuilder("mock").
			SetString("source", m.category.String())).
		Build(), nil
}
