// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "staker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Config
		wantErr bool
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			want:    DefaultConfig(),
		},
		{
			name:    "partial override",
			content: "max-validators: 7\nclaim-delay: 3\n",
			want: Config{
				MaxValidators:   7,
				UndelegateDelay: DefaultUndelegateDelay,
				RedelegateDelay: DefaultRedelegateDelay,
				ClaimDelay:      3,
			},
		},
		{
			name:    "unknown key",
			content: "max-validator: 7\n",
			wantErr: true,
		},
		{
			name:    "invalid max validators",
			content: "max-validators: 0\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
