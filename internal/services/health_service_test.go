package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bbbcli/internal/shared/testutil"
)

// MockDatasetStatus implements DatasetStatusProvider for health service testing
type MockDatasetStatus struct {
	mock.Mock
}

func (m *MockDatasetStatus) Status() DatasetStatus {
	args := m.Called()
	return args.Get(0).(DatasetStatus)
}

func TestHealthService_HealthCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", t.TempDir(), nil, logger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "match.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	tests := []struct {
		name        string
		matchesDir  string
		status      *DatasetStatus
		wantStatus  string
		wantDataset string
		wantMatches string
	}{
		{
			name:        "loaded dataset and directory present",
			matchesDir:  dir,
			status:      &DatasetStatus{Loaded: true, Deliveries: 240, Matches: 1},
			wantStatus:  "ready",
			wantDataset: "ready",
			wantMatches: "ready",
		},
		{
			name:        "dataset not loaded",
			matchesDir:  dir,
			status:      &DatasetStatus{},
			wantStatus:  "not_ready",
			wantDataset: "not_ready",
			wantMatches: "ready",
		},
		{
			name:        "missing matches directory",
			matchesDir:  filepath.Join(dir, "missing"),
			status:      &DatasetStatus{Loaded: true},
			wantStatus:  "not_ready",
			wantDataset: "ready",
			wantMatches: "not_ready",
		},
		{
			name:        "matches path is a file",
			matchesDir:  file,
			status:      &DatasetStatus{Loaded: true},
			wantStatus:  "not_ready",
			wantDataset: "ready",
			wantMatches: "not_ready",
		},
		{
			name:        "no dataset service",
			matchesDir:  dir,
			wantStatus:  "not_ready",
			wantDataset: "not_ready",
			wantMatches: "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var provider DatasetStatusProvider
			if tt.status != nil {
				m := new(MockDatasetStatus)
				m.On("Status").Return(*tt.status)
				defer m.AssertExpectations(t)
				provider = m
			}

			hs := NewHealthService("dev", tt.matchesDir, provider, nil)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantDataset, status.Services["dataset"].(ServiceHealth).Status)
			assert.Equal(t, tt.wantMatches, status.Services["matches"].(ServiceHealth).Status)
		})
	}
}

func TestHealthService_ReadinessMessageCountsDataset(t *testing.T) {
	m := new(MockDatasetStatus)
	m.On("Status").Return(DatasetStatus{Loaded: true, Deliveries: 240, Matches: 1})

	hs := NewHealthService("dev", t.TempDir(), m, nil)
	status := hs.ReadinessCheck(context.Background())

	assert.Equal(t, "240 deliveries from 1 matches", status.Services["dataset"].(ServiceHealth).Message)
}

func TestHealthService_ReadinessWithDatasetService(t *testing.T) {
	svc := NewDatasetService(&fakeLoader{ds: testDataset()}, "matches", nil)
	hs := NewHealthService("dev", t.TempDir(), svc, nil)

	assert.Equal(t, "not_ready", hs.ReadinessCheck(context.Background()).Status)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", hs.ReadinessCheck(context.Background()).Status)
}

func TestHealthService_LivenessCheck(t *testing.T) {
	hs := NewHealthService("dev", t.TempDir(), nil, nil)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Equal(t, runtime.Version(), status.Runtime["go_version"])
	assert.Contains(t, status.Runtime, "goroutines")
	assert.Contains(t, status.Runtime, "uptime")
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("2.0.0", t.TempDir(), nil, nil)

	info := hs.Version()
	assert.Equal(t, "2.0.0", info["version"])
	assert.Equal(t, runtime.GOOS, info["os"])
	assert.Equal(t, runtime.GOARCH, info["arch"])
	assert.NotEmpty(t, info["start_time"])
}
