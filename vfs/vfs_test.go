package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardhipoetra/faasm/wasierrno"
)

func newTestTable(t *testing.T) (*Table, string) {
	t.Helper()
	root := t.TempDir()
	v := New(root, nil)
	return NewTable(v, v.Preopens()), root
}

func TestPreopenDiscoveryAndCloseIsNoop(t *testing.T) {
	table, _ := newTestTable(t)

	preopens := table.Preopens()
	require.Len(t, preopens, 1)
	require.Equal(t, uint32(3), preopens[0].ID)

	errno := table.Close(preopens[0].ID)
	require.Equal(t, wasierrno.Success, errno)
	require.NotNil(t, table.Get(preopens[0].ID), "preopen close must not remove the entry")
}

func TestOpenWriteReadRoundTrip(t *testing.T) {
	table, _ := newTestTable(t)

	fd, errno := table.Open(3, "greeting.txt", RightsAll, RightsAll, 1<<0, 0)
	require.Equal(t, wasierrno.Success, errno)

	n, errno := table.Write(fd, [][]byte{[]byte("hello")}, nil)
	require.Equal(t, wasierrno.Success, errno)
	require.EqualValues(t, 5, n)

	_, errno = table.Seek(fd, 0, 0)
	require.Equal(t, wasierrno.Success, errno)

	buf := make([]byte, 5)
	n, errno = table.Read(fd, [][]byte{buf})
	require.Equal(t, wasierrno.Success, errno)
	require.EqualValues(t, 5, n)
	require.Equal(t, "hello", string(buf))
}

func TestDupSharesCursor(t *testing.T) {
	table, _ := newTestTable(t)

	fd, errno := table.Open(3, "f.txt", RightsAll, RightsAll, 1<<0, 0)
	require.Equal(t, wasierrno.Success, errno)
	_, errno = table.Write(fd, [][]byte{[]byte("0123456789")}, nil)
	require.Equal(t, wasierrno.Success, errno)

	dup, errno := table.Dup(fd)
	require.Equal(t, wasierrno.Success, errno)

	_, errno = table.Seek(fd, 4, 0)
	require.Equal(t, wasierrno.Success, errno)

	cur, errno := table.Tell(dup)
	require.Equal(t, wasierrno.Success, errno)
	require.EqualValues(t, 4, cur, "dup shares the same native handle and cursor")
}

func TestPathEscapeRejected(t *testing.T) {
	table, _ := newTestTable(t)

	_, errno := table.Open(3, "../../etc/passwd", RightsAll, RightsAll, 0, 0)
	require.Equal(t, wasierrno.Notcapable, errno)
}

func TestReaddirTotalOrder(t *testing.T) {
	table, root := newTestTable(t)

	sub := filepath.Join(root, "data")
	require.NoError(t, os.Mkdir(sub, 0o755))
	const count = 300
	for i := 0; i < count; i++ {
		f, err := os.Create(filepath.Join(sub, "file-"+itoa(i)))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	dirFd, errno := table.Open(3, "data", RightsAll, RightsAll, 0, 0)
	require.Equal(t, wasierrno.Success, errno)

	seen := make(map[string]bool)
	cookie := uint64(0)
	for {
		buf, next, errno := table.ReadDir(dirFd, cookie, 4096)
		require.Equal(t, wasierrno.Success, errno)
		if len(buf) == 0 {
			break
		}
		parseDirentNames(buf, seen)
		cookie = next
	}
	require.Len(t, seen, count)
}

func TestReaddirBufferSmallerThanOneEntryReturnsUnchangedCursor(t *testing.T) {
	table, root := newTestTable(t)
	sub := filepath.Join(root, "d")
	require.NoError(t, os.Mkdir(sub, 0o755))
	f, err := os.Create(filepath.Join(sub, "only-file-with-a-long-name.txt"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dirFd, errno := table.Open(3, "d", RightsAll, RightsAll, 0, 0)
	require.Equal(t, wasierrno.Success, errno)

	buf, next, errno := table.ReadDir(dirFd, 0, 4)
	require.Equal(t, wasierrno.Success, errno)
	require.Empty(t, buf)
	require.EqualValues(t, 0, next)
}

func parseDirentNames(buf []byte, seen map[string]bool) {
	i := 0
	for i+direntHeaderSize <= len(buf) {
		namlen := int(buf[i+16]) | int(buf[i+17])<<8 | int(buf[i+18])<<16 | int(buf[i+19])<<24
		start := i + direntHeaderSize
		end := start + namlen
		if end > len(buf) {
			break
		}
		seen[string(buf[start:end])] = true
		i = end
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
