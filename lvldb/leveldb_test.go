// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, ldb := range []*LevelDB{persistent, mem} {
		require.NoError(t, ldb.Put(key, value))

		got, err := ldb.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := ldb.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = ldb.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, ldb.Delete(key))
		_, err = ldb.Get(key)
		assert.True(t, ldb.IsNotFound(err))
	}
}

func TestLevelDBBatch(t *testing.T) {
	ldb, err := NewMem()
	require.NoError(t, err)
	defer ldb.Close()

	require.NoError(t, ldb.Put([]byte("gone"), []byte("x")))

	batch := ldb.NewBatch()
	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Put([]byte("b"), []byte("2")))
	require.NoError(t, batch.Delete([]byte("gone")))
	assert.Equal(t, 3, batch.Len())

	// nothing is visible before Write
	_, err = ldb.Get([]byte("a"))
	assert.True(t, ldb.IsNotFound(err))

	require.NoError(t, batch.Write())

	v, err := ldb.Get([]byte("b"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	_, err = ldb.Get([]byte("gone"))
	assert.True(t, ldb.IsNotFound(err))
}

func TestBucket(t *testing.T) {
	ldb, err := NewMem()
	require.NoError(t, err)
	defer ldb.Close()

	bucket := kv.Bucket("staker/")
	store := bucket.NewStore(ldb)

	require.NoError(t, store.Put([]byte("k"), []byte("v")))
	raw, err := ldb.Get([]byte("staker/k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), raw)

	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("k2"), []byte("v2")))
	require.NoError(t, batch.Write())

	has, err := ldb.Has([]byte("staker/k2"))
	assert.NoError(t, err)
	assert.True(t, has)
}
