package scheduler

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReloader struct {
	calls atomic.Int32
	err   error
}

func (f *fakeReloader) Reload() error {
	f.calls.Add(1)
	return f.err
}

type fakeCache struct {
	flushes atomic.Int32
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.flushes.Add(1)
	return nil
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New("every five minutes", &fakeReloader{}, nil, nil)
	assert.Error(t, err)

	_, err = New("*/5 * * * *", &fakeReloader{}, nil, nil)
	assert.NoError(t, err)
}

func TestReloadCatalog(t *testing.T) {
	tests := []struct {
		name        string
		reloadErr   error
		wantFlushes int32
	}{
		{name: "success flushes cache", wantFlushes: 1},
		{name: "failure keeps cache", reloadErr: errors.New("bad yaml"), wantFlushes: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReloader{err: tt.reloadErr}
			c := &fakeCache{}
			s, err := New("@every 1h", r, c, nil)
			require.NoError(t, err)

			s.ReloadCatalog()
			assert.Equal(t, int32(1), r.calls.Load())
			assert.Equal(t, tt.wantFlushes, c.flushes.Load())
		})
	}
}

func TestReloadCatalog_NoCache(t *testing.T) {
	r := &fakeReloader{}
	s, err := New("@hourly", r, nil, nil)
	require.NoError(t, err)
	s.ReloadCatalog()
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestStartStop(t *testing.T) {
	s, err := New("@hourly", &fakeReloader{}, &fakeCache{}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()
}
