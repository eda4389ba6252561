package suggest_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/chatledger/cmd/root"
	"fjacquet/chatledger/cmd/suggest"
	"fjacquet/chatledger/internal/config"
)

func setup(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEDGER_LEDGER_FILE", filepath.Join(t.TempDir(), "ledger.csv"))
	t.Setenv("LEDGER_LOG_LEVEL", "error")

	cfg, err := config.InitializeConfig()
	require.NoError(t, err)
	require.NoError(t, root.Setup(cfg))
}

// flagDefaults are the registered values of the command flags.
var flagDefaults = map[string]string{
	"top":       "3",
	"direction": "",
}

func resetFlags() {
	for name, value := range flagDefaults {
		_ = suggest.Cmd.Flags().Set(name, value)
	}
}

func setFlags(t *testing.T, flags map[string]string) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	for name, value := range flags {
		require.NoError(t, suggest.Cmd.Flags().Set(name, value))
	}
}

func TestSuggestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "suggest [message]", suggest.Cmd.Use)
	assert.Contains(t, suggest.Cmd.Short, "Suggest categories")
	assert.NotNil(t, suggest.Cmd.RunE)
}

func TestSuggestCommand_Flags(t *testing.T) {
	topFlag := suggest.Cmd.Flags().Lookup("top")
	require.NotNil(t, topFlag)
	assert.Equal(t, "n", topFlag.Shorthand)
	assert.Equal(t, "3", topFlag.DefValue)

	directionFlag := suggest.Cmd.Flags().Lookup("direction")
	require.NotNil(t, directionFlag)
	assert.Equal(t, "d", directionFlag.Shorthand)
	assert.Equal(t, "", directionFlag.DefValue)
	assert.Contains(t, directionFlag.Usage, "expense or income")
}

func TestSuggestCommand_Run(t *testing.T) {
	setup(t)

	tests := []struct {
		name     string
		flags    map[string]string
		args     []string
		contains []string
		absent   []string
	}{
		{
			name:     "direction from message",
			args:     []string{"потратил 300 руб на такси и метро"},
			contains: []string{"Direction: expense", "1. 🚗 Транспорт (3.00)"},
		},
		{
			name:     "ties keep taxonomy order",
			flags:    map[string]string{"direction": "expense"},
			args:     []string{"кофе", "и", "кино"},
			contains: []string{"1. 🛒 Продукты питания (1.40)", "2. 🎉 Развлечения (1.40)"},
		},
		{
			name:     "top limits the list",
			flags:    map[string]string{"direction": "expense", "top": "1"},
			args:     []string{"кофе и кино"},
			contains: []string{"1. 🛒 Продукты питания"},
			absent:   []string{"Развлечения"},
		},
		{
			name:     "nothing matches",
			flags:    map[string]string{"direction": "income"},
			args:     []string{"подарок"},
			contains: []string{"No keyword matched, fallback: Прочие доходы"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setFlags(t, tt.flags)
			var out bytes.Buffer
			suggest.Cmd.SetOut(&out)

			require.NoError(t, suggest.Cmd.RunE(suggest.Cmd, tt.args))
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, out.String(), unwanted)
			}
		})
	}
}

func TestSuggestCommand_Errors(t *testing.T) {
	setup(t)

	t.Run("unknown direction in message", func(t *testing.T) {
		err := suggest.Cmd.RunE(suggest.Cmd, []string{"кофе и кино"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--direction")
	})

	t.Run("invalid direction flag", func(t *testing.T) {
		setFlags(t, map[string]string{"direction": "sideways"})
		err := suggest.Cmd.RunE(suggest.Cmd, []string{"кофе"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid direction")
	})
}
