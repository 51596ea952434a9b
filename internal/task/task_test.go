package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore map[string]string

func (f fakeStore) Fingerprint(taskName string) (string, bool) {
	fp, ok := f[taskName]
	return fp, ok
}

func writeAt(t *testing.T, path string, mtime time.Time) string {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestFingerprint_MapOrderIndependent(t *testing.T) {
	t.Parallel()

	a, err := Fingerprint(map[string]any{"alpha": 1, "beta": "two", "gamma": []string{"x"}})
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"gamma": []string{"x"}, "beta": "two", "alpha": 1})
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestFingerprint_DetectsChange(t *testing.T) {
	t.Parallel()

	a, err := Fingerprint(map[string]any{"rate": 0.01})
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"rate": 0.02})
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestUpToDate_NoTargets(t *testing.T) {
	t.Parallel()

	tk := Task{Name: "t"}
	require.False(t, tk.UpToDate(fakeStore{}))
}

func TestUpToDate_MissingTarget(t *testing.T) {
	t.Parallel()

	tk := Task{Name: "t", Targets: []string{filepath.Join(t.TempDir(), "missing")}}
	require.False(t, tk.UpToDate(fakeStore{}))
}

func TestUpToDate_FreshTargets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	dep := writeAt(t, filepath.Join(dir, "dep"), now.Add(-2*time.Hour))
	target := writeAt(t, filepath.Join(dir, "target"), now.Add(-time.Hour))

	tk := Task{Name: "t", Dependencies: []string{dep}, Targets: []string{target}}
	require.True(t, tk.UpToDate(fakeStore{}))
}

func TestUpToDate_StaleDependency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	target := writeAt(t, filepath.Join(dir, "target"), now.Add(-2*time.Hour))
	dep := writeAt(t, filepath.Join(dir, "dep"), now.Add(-time.Hour))

	tk := Task{Name: "t", Dependencies: []string{dep}, Targets: []string{target}}
	require.False(t, tk.UpToDate(fakeStore{}))
}

func TestUpToDate_OldestTargetGoverns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	dep := writeAt(t, filepath.Join(dir, "dep"), now.Add(-time.Hour))
	fresh := writeAt(t, filepath.Join(dir, "fresh"), now)
	stale := writeAt(t, filepath.Join(dir, "stale"), now.Add(-2*time.Hour))

	tk := Task{Name: "t", Dependencies: []string{dep}, Targets: []string{fresh, stale}}
	require.False(t, tk.UpToDate(fakeStore{}))
}

func TestUpToDate_MissingDependency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeAt(t, filepath.Join(dir, "target"), time.Now())

	tk := Task{
		Name:         "t",
		Dependencies: []string{filepath.Join(dir, "missing")},
		Targets:      []string{target},
	}
	require.False(t, tk.UpToDate(fakeStore{}))
}

func TestUpToDate_Fingerprint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeAt(t, filepath.Join(dir, "target"), time.Now())
	tk := Task{Name: "t", Targets: []string{target}, Fingerprint: "abc"}

	require.False(t, tk.UpToDate(fakeStore{}), "no recorded fingerprint")
	require.False(t, tk.UpToDate(fakeStore{"t": "other"}), "changed fingerprint")
	require.True(t, tk.UpToDate(fakeStore{"t": "abc"}))
}

func TestClean(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	present := writeAt(t, filepath.Join(dir, "present"), time.Now())
	absent := filepath.Join(dir, "absent")

	tk := Task{Name: "t", Targets: []string{present, absent}, CleanTargets: true}
	removed, err := tk.Clean()
	require.NoError(t, err)
	require.Equal(t, []string{present}, removed)
	require.NoFileExists(t, present)
}

func TestClean_NotCleanable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	present := writeAt(t, filepath.Join(dir, "present"), time.Now())

	tk := Task{Name: "t", Targets: []string{present}}
	removed, err := tk.Clean()
	require.NoError(t, err)
	require.Empty(t, removed)
	require.FileExists(t, present)
}

func TestMissingTargets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	present := writeAt(t, filepath.Join(dir, "present"), time.Now())
	absent := filepath.Join(dir, "absent")

	tk := Task{Name: "t", Targets: []string{present, absent}}
	require.Equal(t, []string{absent}, tk.MissingTargets())
}

func TestCheckDistinctTargets(t *testing.T) {
	t.Parallel()

	ok := []Task{
		{Name: "a", Targets: []string{"/out/one"}},
		{Name: "b", Targets: []string{"/out/two"}},
	}
	require.NoError(t, CheckDistinctTargets(ok))

	clash := append(ok, Task{Name: "c", Targets: []string{"/out/one"}})
	err := CheckDistinctTargets(clash)
	require.ErrorContains(t, err, "/out/one")
	require.ErrorContains(t, err, "a")
	require.ErrorContains(t, err, "c")
}
