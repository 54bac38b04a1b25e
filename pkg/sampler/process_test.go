//go:build linux

package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/proctop/pkg/system/proc"
)

func TestResolveName(t *testing.T) {
	tests := []struct {
		name        string
		comm        string
		args        []string
		wantName    string
		wantCommand string
	}{
		{
			name:        "kernel_thread",
			comm:        "ksoftirqd",
			wantName:    "ksoftirqd",
			wantCommand: "[ksoftirqd]",
		},
		{
			name:        "truncated_comm",
			comm:        "long-daemon-nam",
			args:        []string{"/usr/bin/long-daemon-name", "--flag"},
			wantName:    "long-daemon-name",
			wantCommand: "/usr/bin/long-daemon-name --flag",
		},
		{
			name:        "short_comm_kept",
			comm:        "bash",
			args:        []string{"-bash"},
			wantName:    "bash",
			wantCommand: "-bash",
		},
		{
			name:        "renamed_short_process_keeps_comm",
			comm:        "postgres",
			args:        []string{"postgres: checkpointer"},
			wantName:    "postgres",
			wantCommand: "postgres: checkpointer",
		},
		{
			name:        "truncated_comm_unusable_argv0",
			comm:        "exactly15chars_",
			args:        []string{"/"},
			wantName:    "exactly15chars_",
			wantCommand: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, command := ResolveName(tt.comm, tt.args)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantCommand, command)
		})
	}
}

func TestEnumerate(t *testing.T) {
	uid := uint32(1000)
	src := newFakeSource()
	src.procs[1] = fakeProc{
		stat: proc.Stat{Comm: "init", State: 'S', UTime: 10, STime: 5},
		args: []string{"/sbin/init"},
		io:   &proc.IO{ReadBytes: 4096},
		fds:  socketFDs(5),
		uid:  &uid,
	}
	src.procs[2] = fakeProc{stat: proc.Stat{Comm: "kthreadd", State: 'S'}}
	src.procs[3] = fakeProc{} // stat unreadable: exited between listing and reading

	log, buf := bufLogger()
	raws, err := NewProcessSampler(src, log).Enumerate()
	require.NoError(t, err)
	require.Len(t, raws, 2)

	first := raws[0]
	assert.Equal(t, 1, first.Stat.PID)
	assert.Equal(t, "init", first.Name)
	assert.Equal(t, "/sbin/init", first.Command)
	require.NotNil(t, first.UID)
	assert.Equal(t, uid, *first.UID)
	require.NotNil(t, first.IO)
	assert.Equal(t, uint64(4096), first.IO.ReadBytes)
	assert.Len(t, first.FDs, 1)

	kt := raws[1]
	assert.Equal(t, 2, kt.Stat.PID)
	assert.Equal(t, "[kthreadd]", kt.Command)
	assert.Nil(t, kt.UID)
	assert.Nil(t, kt.IO)
	assert.Nil(t, kt.FDs)

	assert.Contains(t, buf.String(), "skip process")
}

func TestEnumerate_ListingFails(t *testing.T) {
	src := newFakeSource()
	src.pidsErr = errBoom

	_, err := NewProcessSampler(src, nil).Enumerate()
	require.ErrorIs(t, err, ErrEnumerate)
	assert.Contains(t, err.Error(), "boom")
}
