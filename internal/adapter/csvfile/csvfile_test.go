package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_WritesHeaderOnceAndAppends(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "output.csv")
	s := NewSink(map[string]string{"listings": path})

	require.NoError(t, s.Write(ctx, "listings", []string{"Name", "Avg Price"}, [][]string{{"A", "100"}}))
	require.NoError(t, s.Write(ctx, "listings", []string{"name", "avg_price"}, [][]string{{"B", ""}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,avg_price\nA,100\nB,\n", string(data))
}

func TestSink_AlignsToExistingHeader(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, os.WriteFile(path, []byte("address,name\n"), 0o644))

	s := NewSink(map[string]string{"listings": path})
	require.NoError(t, s.Write(ctx, "listings", []string{"name", "address", "extra"}, [][]string{{"A", "Street 1", "x"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "address,name\nStreet 1,A\n", string(data))
}

// shortFile accepts at most limit bytes per write.
type shortFile struct {
	data        []byte
	limit       int
	truncatedTo int64
}

func (f *shortFile) Write(p []byte) (int, error) {
	if len(p) > f.limit {
		f.data = append(f.data, p[:f.limit]...)
		return f.limit, errors.New("no space left on device")
	}
	f.data = append(f.data, p...)
	return len(p), nil
}

func (f *shortFile) Truncate(size int64) error {
	f.truncatedTo = size
	f.data = f.data[:size]
	return nil
}

func TestAppendAll_PartialWriteIsRolledBack(t *testing.T) {
	f := &shortFile{data: []byte("name\nA\n"), limit: 3}

	err := appendAll(f, 7, []byte("B\nC\nD\n"))
	assert.ErrorContains(t, err, "no space left")
	assert.Equal(t, int64(7), f.truncatedTo)
	assert.Equal(t, "name\nA\n", string(f.data))

	require.NoError(t, appendAll(f, 7, []byte("B\n")))
	assert.Equal(t, "name\nA\nB\n", string(f.data))
}

func TestSink_UnknownTarget(t *testing.T) {
	s := NewSink(map[string]string{})
	err := s.Write(context.Background(), "nope", []string{"a"}, nil)
	assert.ErrorContains(t, err, "unknown target")
}

func TestLinkReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	content := "name,link\nA,https://x/org/1/\nB,\nC,https://x/org/1/\nD,https://x/org/2/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	links, err := NewLinkReader(path).Links(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/org/1/", "https://x/org/2/"}, links)
}

func TestLinkReader_NoLinkColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nA\n"), 0o644))

	_, err := NewLinkReader(path).Links(context.Background())
	assert.ErrorContains(t, err, "no link column")

	_, err = NewLinkReader(filepath.Join(t.TempDir(), "missing.csv")).Links(context.Background())
	assert.Error(t, err)
}
