package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"preipo-sip.backend/pkg/logger"
)

func init() {
	logger.Init("test")
}

type referralProcessorStub struct {
	processed int
	err       error
	calls     int
	lastLimit int
}

func (s *referralProcessorStub) ProcessPending(_ context.Context, limit int) (int, error) {
	s.calls++
	s.lastLimit = limit
	if s.err != nil {
		return 0, s.err
	}
	return s.processed, nil
}

func TestReferralMaturationSweep(t *testing.T) {
	stub := &referralProcessorStub{processed: 3}
	job := NewReferralMaturationJob(stub, time.Millisecond)

	job.sweep(context.Background())
	require.Equal(t, 1, stub.calls)
	require.Equal(t, 100, stub.lastLimit)
}

func TestReferralMaturationSweep_ErrorDoesNotPanic(t *testing.T) {
	stub := &referralProcessorStub{err: errors.New("db down")}
	job := NewReferralMaturationJob(stub, time.Millisecond)

	job.sweep(context.Background())
	require.Equal(t, 1, stub.calls)
}

func TestReferralMaturationJob_StopsByContext(t *testing.T) {
	job := NewReferralMaturationJob(&referralProcessorStub{}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop on context cancellation")
	}
}

func TestReferralMaturationJob_StopsByStop(t *testing.T) {
	job := NewReferralMaturationJob(&referralProcessorStub{}, time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	job.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop on Stop")
	}
}
