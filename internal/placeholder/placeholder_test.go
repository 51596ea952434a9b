package placeholder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApply_RoundTrip(t *testing.T) {
	t.Parallel()

	got, err := Apply("Hi {name}!", map[string]string{"name": "Tim"})
	require.NoError(t, err)
	require.Equal(t, "Hi Tim!", got)
}

func TestApply_MultipleTokens(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"output_root_dir": "/data/out",
		"run_id":          "20240101",
		"stub":            "ssp119",
	}
	got, err := Apply("{output_root_dir}/{run_id}/{stub}/config.yaml", vars)
	require.NoError(t, err)
	require.Equal(t, "/data/out/20240101/ssp119/config.yaml", got)
}

func TestApply_MissingKey(t *testing.T) {
	t.Parallel()

	_, err := Apply("Hi {name}!", map[string]string{})
	require.Error(t, err)

	var missing *MissingKeyError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "name", missing.Key)
}

func TestApply_NoRecursiveExpansion(t *testing.T) {
	t.Parallel()

	// A substituted value containing {other} must be inserted verbatim,
	// even though "other" has a value.
	vars := map[string]string{
		"name":  "{other}",
		"other": "should-not-appear",
	}
	got, err := Apply("Hi {name}!", vars)
	require.NoError(t, err)
	require.Equal(t, "Hi {other}!", got)
}

func TestApply_EscapedBraces(t *testing.T) {
	t.Parallel()

	got, err := Apply("literal {{braces}} and {name}", map[string]string{"name": "value"})
	require.NoError(t, err)
	require.Equal(t, "literal {braces} and value", got)
}

func TestApply_UnterminatedBrace(t *testing.T) {
	t.Parallel()

	_, err := Apply("broken {name", map[string]string{"name": "x"})
	require.Error(t, err)

	var syntax *SyntaxError
	require.True(t, errors.As(err, &syntax))
}

func TestApply_Deterministic(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"a": "1", "b": "2"}
	first, err := Apply("{a}-{b}-{a}", vars)
	require.NoError(t, err)
	second, err := Apply("{a}-{b}-{a}", vars)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
