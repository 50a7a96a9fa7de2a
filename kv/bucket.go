// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

// Key returns the full store key of the given key in the bucket.
func (b Bucket) Key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// NewStore creates a store whose keys are all prefixed by the bucket.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucket: b, src: src}
}

type bucketStore struct {
	bucket Bucket
	src    Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.bucket.Key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.bucket.Key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.bucket.Key(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.bucket.Key(key)) }

func (s *bucketStore) NewBatch() Batch {
	return &bucketBatch{bucket: s.bucket, batch: s.src.NewBatch()}
}

type bucketBatch struct {
	bucket Bucket
	batch  Batch
}

func (b *bucketBatch) Put(key, val []byte) error { return b.batch.Put(b.bucket.Key(key), val) }
func (b *bucketBatch) Delete(key []byte) error   { return b.batch.Delete(b.bucket.Key(key)) }
func (b *bucketBatch) Len() int                  { return b.batch.Len() }
func (b *bucketBatch) Write() error              { return b.batch.Write() }
