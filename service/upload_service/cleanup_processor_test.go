package upload_service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupProcessorDefaults(t *testing.T) {
	svc, _ := newTestService(1024)

	cp := NewCleanupProcessor(svc, 0, 0)
	assert.Equal(t, 1*time.Hour, cp.interval)
	assert.Equal(t, 24*time.Hour, cp.maxAge)
}

func TestCleanupProcessorSweepsOnStart(t *testing.T) {
	svc, st := newTestService(1024)

	uploadId, err := st.InitiateMultipartUpload("uploads/aaaaaaaaaaaaaaaa/old.pdf")
	require.NoError(t, err)
	st.setInitiated(uploadId, time.Now().Add(-2*time.Hour))

	cp := NewCleanupProcessor(svc, time.Minute, time.Hour)
	cp.Start()
	defer cp.Stop()

	require.Eventually(t, func() bool {
		return st.uploadCount() == 0
	}, 2*time.Second, 10*time.Millisecond, "startup sweep should abort the stale session")
}

func TestCleanupProcessorStops(t *testing.T) {
	svc, st := newTestService(1024)

	cp := NewCleanupProcessor(svc, 10*time.Millisecond, time.Hour)
	cp.Start()
	cp.Stop()

	// After Stop the loop no longer sweeps sessions that age past the cutoff
	time.Sleep(30 * time.Millisecond)
	uploadId, err := st.InitiateMultipartUpload("uploads/aaaaaaaaaaaaaaaa/old.pdf")
	require.NoError(t, err)
	st.setInitiated(uploadId, time.Now().Add(-2*time.Hour))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, st.uploadCount())
}
