package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/neo/passwordanalyzer/internal/server"
	"github.com/neo/passwordanalyzer/internal/strength"
	"github.com/neo/passwordanalyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCheck(t *testing.T, stdin string, args ...string) string {
	cmd := newCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestCheckCommandText(t *testing.T) {
	out := runCheck(t, "", "Passw0rd")

	assert.Contains(t, out, "Strength: Moderate (Score: 4/5)")
	assert.Contains(t, out, "✅ Length (≥ 8)")
	assert.Contains(t, out, "❌ Special character")
	assert.Contains(t, out, "  - "+strength.SuggestSpecial)
	assert.Contains(t, out, "SHA-256: "+strength.Digest("Passw0rd"))
	assert.NotContains(t, out, "Estimate:")
}

func TestCheckCommandVeryStrongHasNoSuggestions(t *testing.T) {
	out := runCheck(t, "", "Password1!")

	assert.Contains(t, out, "Strength: Very Strong (Score: 5/5)")
	assert.NotContains(t, out, "Suggestions:")
}

func TestCheckCommandReadsStdin(t *testing.T) {
	out := runCheck(t, "Password1!\r\nignored\n", "--json")

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 5, report.Result.Score)
	assert.Equal(t, types.LabelVeryStrong, report.Result.Label)
	assert.Equal(t, strength.Digest("Password1!"), report.Result.Digest)
	assert.Nil(t, report.Estimate)
}

func TestCheckCommandEmptyStdin(t *testing.T) {
	out := runCheck(t, "", "--json", "--estimate")

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 0, report.Result.Score)
	assert.Len(t, report.Result.Suggestions, 5)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", report.Result.Digest)
	require.NotNil(t, report.Estimate)
}

func TestCheckCommandEstimateText(t *testing.T) {
	out := runCheck(t, "", "--estimate", "password")
	assert.Contains(t, out, "Estimate: 0/4")
}

func TestCheckCommandTooManyArgs(t *testing.T) {
	cmd := newCheckCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"one", "two"})
	assert.Error(t, cmd.Execute())
}

func TestCheckCommandFailBelow(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		expectedErr error
		expectOut   bool
	}{
		{
			name:      "Meets threshold",
			args:      []string{"--fail-below", "Moderate", "Passw0rd"},
			expectOut: true,
		},
		{
			name:        "Below threshold",
			args:        []string{"--fail-below", "Very Strong", "Passw0rd"},
			expectedErr: errBelowThreshold,
			expectOut:   true,
		},
		{
			name:        "Below threshold with JSON",
			args:        []string{"--json", "--fail-below", "Moderate", "password"},
			expectedErr: errBelowThreshold,
			expectOut:   true,
		},
		{
			name:        "Unknown label",
			args:        []string{"--fail-below", "Strong", "Passw0rd"},
			expectedErr: types.ErrInvalidStrengthLabel,
			expectOut:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newCheckCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetIn(strings.NewReader(""))
			cmd.SetArgs(tc.args)

			err := cmd.Execute()
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectOut, strings.Contains(out.String(), "SHA-256") || strings.Contains(out.String(), `"digest"`))
		})
	}
}

func runFlags(t *testing.T, args ...string) (string, error) {
	cmd := newFlagsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestFlagsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")

	out, err := runFlags(t, "show", "--path", path)
	require.NoError(t, err)
	var shown server.FeatureFlags
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, server.DefaultFeatureFlags(), shown)

	out, err = runFlags(t, "set", "--path", path, "enable_live_analysis=true", "enable_estimate=false")
	require.NoError(t, err)
	assert.Contains(t, out, `"enable_live_analysis": true`)

	manager, err := server.NewFeatureFlagManager(path)
	require.NoError(t, err)
	flags := manager.GetFlags()
	assert.True(t, flags.EnableLiveAnalysis)
	assert.False(t, flags.EnableEstimate)
	assert.True(t, flags.EnableJSONAPI)
}

func TestFlagsCommandRejectsBadAssignments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")

	for _, arg := range []string{"enable_everything=true", "enable_estimate", "enable_estimate=maybe"} {
		_, err := runFlags(t, "set", "--path", path, arg)
		assert.Error(t, err, arg)
	}

	manager, err := server.NewFeatureFlagManager(path)
	require.NoError(t, err)
	assert.Equal(t, server.DefaultFeatureFlags(), manager.GetFlags())
}

func TestReloadOnHangup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.json")
	featureFlags, err := server.NewFeatureFlagManager(path)
	require.NoError(t, err)
	require.False(t, featureFlags.GetFlags().EnableLiveAnalysis)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		reloadOnHangup(ctx, signals, featureFlags)
		close(done)
	}()

	_, err = runFlags(t, "set", "--path", path, "enable_live_analysis=true")
	require.NoError(t, err)
	assert.False(t, featureFlags.GetFlags().EnableLiveAnalysis)

	signals <- syscall.SIGHUP
	assert.Eventually(t, func() bool {
		return featureFlags.GetFlags().EnableLiveAnalysis
	}, time.Second, 10*time.Millisecond)

	// A broken file keeps the last good flags
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	signals <- syscall.SIGHUP
	time.Sleep(50 * time.Millisecond)
	assert.True(t, featureFlags.GetFlags().EnableLiveAnalysis)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reloadOnHangup did not stop after cancel")
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	cmd := newInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir})
	require.NoError(t, cmd.Execute())

	env, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "PORT=8080")

	manager, err := server.NewFeatureFlagManager(filepath.Join(dir, server.DefaultFeatureFlagsPath))
	require.NoError(t, err)
	assert.Equal(t, server.DefaultFeatureFlags(), manager.GetFlags())
	assert.Contains(t, out.String(), "Created .env template file")

	// Second run leaves the existing file alone
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=1\n"), 0644))
	cmd = newInitCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir})
	require.NoError(t, cmd.Execute())

	env, err = os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "PORT=1\n", string(env))
	assert.Contains(t, out.String(), "already exists")
}
