// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := newKind(KindUnknown, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, KindUnknown, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_Kinds(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{ErrDelegationsNotFound, KindNotFound},
		{ErrNotSelfDelegated, KindPolicyViolation},
		{ErrDelegateTooLarge, KindPolicyViolation},
		{ErrUndelegateTooLarge, KindPolicyViolation},
		{ErrMultipleRequests, KindDuplicateRequest},
		{ErrTimeWentBackwards, KindClockViolation},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := errors.Wrap(tt.err, "request undelegate")
			assert.True(t, IsRevertErr(wrapped))
			assert.Equal(t, tt.kind, KindOf(wrapped))
			assert.True(t, errors.Is(wrapped, tt.err))
		})
	}

	assert.Equal(t, KindUnknown, KindOf(errors.New("disk failure")))
	assert.Equal(t, "clock-violation", KindClockViolation.String())
}
