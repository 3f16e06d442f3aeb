package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCLI(t *testing.T, args ...string) *CLI {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return cli
}

func TestCLI_Parse(t *testing.T) {
	t.Parallel()

	t.Run("run defaults", func(t *testing.T) {
		t.Parallel()

		cli := parseCLI(t, "run", "https://example.com")
		assert.Equal(t, "https://example.com", cli.Run.URL)
		assert.Equal(t, 2, cli.Run.MaxDepth)
		assert.Equal(t, 0, cli.Run.MaxURLs)
		assert.Nil(t, cli.Run.DynamicAttempts)
		assert.Equal(t, 3, cli.Run.Sessions)
		assert.Equal(t, 10, cli.Run.StaticWorkers)
		assert.Equal(t, 2.0, cli.Run.Rate)
		assert.Equal(t, ".", cli.Run.Out)
		assert.Empty(t, cli.Run.Archive)
	})

	t.Run("run with flags", func(t *testing.T) {
		t.Parallel()

		cli := parseCLI(t, "run", "https://example.com",
			"--max-depth=4", "--max-urls=100", "--dynamic-attempts=5",
			"-x", "images", "-x", "links",
			"--published-after=2024-06-01",
			"--deny=/internal", "--deny=/draft",
			"--out=/tmp/artifacts", "--archive=/tmp/harvest.db")

		assert.Equal(t, 4, cli.Run.MaxDepth)
		assert.Equal(t, 100, cli.Run.MaxURLs)
		require.NotNil(t, cli.Run.DynamicAttempts)
		assert.Equal(t, 5, *cli.Run.DynamicAttempts)
		assert.Equal(t, []string{"images", "links"}, cli.Run.Exclude)
		assert.Equal(t, "2024-06-01", cli.Run.PublishedAfter)
		assert.Equal(t, []string{"/internal", "/draft"}, cli.Run.Deny)
		assert.Equal(t, "/tmp/artifacts", cli.Run.Out)
		assert.Equal(t, "/tmp/harvest.db", cli.Run.Archive)
	})

	t.Run("dynamic attempts zero is distinct from unset", func(t *testing.T) {
		t.Parallel()

		cli := parseCLI(t, "run", "https://example.com", "--dynamic-attempts=0")
		require.NotNil(t, cli.Run.DynamicAttempts)
		assert.Equal(t, 0, *cli.Run.DynamicAttempts)
	})

	t.Run("show requires run id", func(t *testing.T) {
		t.Parallel()

		cli := &CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)
		_, err = parser.Parse([]string{"show"})
		assert.Error(t, err)
	})
}

func TestRunCmd_request(t *testing.T) {
	t.Parallel()

	t.Run("translates flags", func(t *testing.T) {
		t.Parallel()

		cmd := &RunCmd{
			URL:            "https://example.com",
			MaxDepth:       3,
			Exclude:        []string{"images"},
			PublishedAfter: "2024-01-15",
			Deny:           []string{"/private"},
		}

		req, err := cmd.request()
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", req.SeedURL)
		assert.Equal(t, 3, req.MaxDepth)
		assert.True(t, req.Exclude.Images)
		require.NotNil(t, req.PublishedAfter)
		assert.Equal(t, "2024-01-15", req.PublishedAfter.Format("2006-01-02"))
		assert.Equal(t, []string{"/private"}, req.Denylist)
	})

	t.Run("rejects unknown exclude category", func(t *testing.T) {
		t.Parallel()

		cmd := &RunCmd{URL: "https://example.com", Exclude: []string{"videos"}}
		_, err := cmd.request()
		assert.Error(t, err)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		t.Parallel()

		cmd := &RunCmd{URL: "https://example.com", PublishedAfter: "June 1st"}
		_, err := cmd.request()
		assert.Error(t, err)
	})
}
