// Copyright 2018 Gemeente Amsterdam, Datapunt.
// This software is released under a Mozilla Public License 2.0 open source license.

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fetchValue(value interface{}) func(string) (interface{}, error) {
	return func(string) (interface{}, error) {
		return value, nil
	}
}

func failFetch(err error) func(string) (interface{}, error) {
	return func(string) (interface{}, error) {
		return nil, err
	}
}

func TestLRUGet(t *testing.T) {
	lru := newLRU(2)

	value, err := lru.Get("a", fetchValue(1))
	if assert.NoError(t, err) {
		assert.Equal(t, 1, value)
	}

	// A second Get must return the cached item, not call fetch
	value, err = lru.Get("a", failFetch(errors.New("should not be called")))
	if assert.NoError(t, err) {
		assert.Equal(t, 1, value)
	}
}

func TestLRUGetError(t *testing.T) {
	lru := newLRU(2)
	oops := errors.New("oops")

	_, err := lru.Get("a", failFetch(oops))
	assert.Equal(t, oops, err)

	// A failed fetch must not populate the cache
	assert.Nil(t, lru.Peek("a"))
}

func TestLRUEviction(t *testing.T) {
	lru := newLRU(2)
	lru.Put("a", 1)
	lru.Put("b", 2)
	lru.Put("c", 3)

	// "a" was the least recently used item
	assert.Nil(t, lru.Peek("a"))
	assert.Equal(t, 2, lru.Peek("b"))
	assert.Equal(t, 3, lru.Peek("c"))
}

func TestLRUGetRecency(t *testing.T) {
	lru := newLRU(2)
	lru.Put("a", 1)
	lru.Put("b", 2)

	// Touching "a" makes "b" the eviction candidate
	_, err := lru.Get("a", failFetch(errors.New("should not be called")))
	assert.NoError(t, err)
	lru.Put("c", 3)

	assert.Equal(t, 1, lru.Peek("a"))
	assert.Nil(t, lru.Peek("b"))
	assert.Equal(t, 3, lru.Peek("c"))
}

func TestLRUPutReplaces(t *testing.T) {
	lru := newLRU(2)
	lru.Put("a", 1)
	lru.Put("a", 2)

	assert.Equal(t, 2, lru.Peek("a"))

	value, err := lru.Get("a", failFetch(errors.New("should not be called")))
	if assert.NoError(t, err) {
		assert.Equal(t, 2, value)
	}
}

func TestLRURemove(t *testing.T) {
	lru := newLRU(2)
	lru.Put("a", 1)
	lru.Remove("a")
	lru.Remove("never-added")

	assert.Nil(t, lru.Peek("a"))
}
