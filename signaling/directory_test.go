package signaling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"retrobell/errors"
)

func Test_Directory_Upsert_And_Lookup(t *testing.T) {
	req := require.New(t)
	d := NewDirectory(10)

	req.NoError(d.Upsert(101, "10.0.0.1:4000"))
	addr, ok := d.Lookup(101)
	req.True(ok)
	req.Equal("10.0.0.1:4000", string(addr))

	_, ok = d.Lookup(999)
	req.False(ok)
}

func Test_Directory_Rebooted_Peer_Updates_In_Place(t *testing.T) {
	req := require.New(t)
	d := NewDirectory(10)

	req.NoError(d.Upsert(101, "10.0.0.1:4000"))
	req.NoError(d.Upsert(101, "10.0.0.7:4000"))

	addr, ok := d.Lookup(101)
	req.True(ok)
	req.Equal("10.0.0.7:4000", string(addr))
	req.Equal(1, d.Count())
}

func Test_Directory_Full_Rejects_New_Numbers_Only(t *testing.T) {
	req := require.New(t)
	d := NewDirectory(10)

	for i := 0; i < 10; i++ {
		req.NoError(d.Upsert(100+i, "addr"))
	}
	req.ErrorIs(d.Upsert(200, "addr"), errors.ErrDirectoryFull)

	// Updates to known numbers still pass.
	req.NoError(d.Upsert(105, "new-addr"))
	req.Equal(10, d.Count())
}

func Test_Directory_Snapshot_Is_A_Copy(t *testing.T) {
	req := require.New(t)
	d := NewDirectory(10)
	req.NoError(d.Upsert(101, "a"))

	snap := d.Snapshot()
	snap[101] = "mutated"
	snap[102] = "injected"

	addr, _ := d.Lookup(101)
	req.Equal("a", string(addr))
	req.Equal(1, d.Count())
}

func Test_Directory_Concurrent_Access(t *testing.T) {
	req := require.New(t)
	d := NewDirectory(50)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = d.Upsert(i, "addr")
		}
	}()
	for i := 0; i < 50; i++ {
		d.Lookup(i)
		d.Count()
	}
	<-done
	req.Equal(50, d.Count())

	// Capacity math stays right after the race.
	req.ErrorIs(d.Upsert(999, "addr"), errors.ErrDirectoryFull)
	_ = fmt.Sprintf("%v", d.Snapshot())
}
