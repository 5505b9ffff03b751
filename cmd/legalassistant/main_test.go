package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestParseFilters(t *testing.T) {
	t.Run("empty input returns nil", func(t *testing.T) {
		filters, err := parseFilters(nil)
		require.NoError(t, err)
		assert.Nil(t, filters)
	})

	t.Run("parses key=value pairs", func(t *testing.T) {
		filters, err := parseFilters([]string{"act_name=BNS", "section=318"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"act_name": "BNS",
			"section":  "318",
		}, filters)
	})

	t.Run("value may contain equals sign", func(t *testing.T) {
		filters, err := parseFilters([]string{"note=a=b"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"note": "a=b"}, filters)
	})

	t.Run("missing separator fails", func(t *testing.T) {
		_, err := parseFilters([]string{"no-separator"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected key=value")
	})

	t.Run("empty key fails", func(t *testing.T) {
		_, err := parseFilters([]string{"=value"})
		require.Error(t, err)
	})
}

func TestSearchCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "legalassistant",
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Value:   5,
					},
				},
			},
		},
	}

	t.Run("missing db flag fails", func(t *testing.T) {
		err := app.Run([]string{"legalassistant", "search", "cheque bounce"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("top-k has default value of 5", func(t *testing.T) {
		cmd := app.Commands[0]
		var topKFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "top-k" {
				topKFlag = f
				break
			}
		}
		require.NotNil(t, topKFlag)
		assert.Equal(t, 5, topKFlag.Value)
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN", "Error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
