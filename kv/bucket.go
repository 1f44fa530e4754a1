// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket is a key prefix that carves a logical table out of a store.
// Keys seen through a bucket never include the prefix.
type Bucket string

// prefixed returns a fresh slice, since batch implementations may retain keys.
func (b Bucket) prefixed(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter { return bucketGetter{b, src} }

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter { return bucketPutter{b, src} }

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.prefixed(key)) }
func (g bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.prefixed(key)) }
func (g bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.prefixed(key), val) }
func (p bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.prefixed(key)) }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Snapshot() Snapshot {
	snap := s.src.Snapshot()
	return &struct {
		Getter
		ReleaseFunc
	}{bucketGetter{s.bucketGetter.b, snap}, snap.Release}
}

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{bucketPutter{s.bucketPutter.b, bulk}, bulk.Len, bulk.Write}
}

// Iterate narrows r to the bucket. An empty limit means the end of the bucket.
func (s *bucketStore) Iterate(r Range) Iterator {
	b := s.bucketGetter.b
	inner := Range{Start: b.prefixed(r.Start)}
	if len(r.Limit) == 0 {
		inner.Limit = PrefixRange([]byte(b)).Limit
	} else {
		inner.Limit = b.prefixed(r.Limit)
	}

	iter := s.src.Iterate(inner)
	return &struct {
		NextFunc
		KeyFunc
		ValueFunc
		ReleaseFunc
		ErrorFunc
	}{
		iter.Next,
		func() []byte { return iter.Key()[len(b):] },
		iter.Value,
		iter.Release,
		iter.Error,
	}
}
