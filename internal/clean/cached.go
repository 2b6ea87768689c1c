package clean

import (
	"strconv"
	"sync/atomic"

	"github.com/ppiankov/tweetprep/internal/cache"
)

// TextCleaner is anything that turns raw tweet text into clean text
type TextCleaner interface {
	Clean(text string) (string, bool)
}

// CachedCleaner memoises another cleaner. Retweets and copy-pasted tweets
// repeat a lot, and reruns over the same files hit the disk layer.
type CachedCleaner struct {
	next      TextCleaner
	store     cache.Cache
	namespace string
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewCachedCleaner wraps next. namespace must change whenever the
// cleaner's settings change (min length, stop words, lemmatisation).
func NewCachedCleaner(next TextCleaner, store cache.Cache, namespace string) *CachedCleaner {
	return &CachedCleaner{next: next, store: store, namespace: namespace}
}

// Namespace builds a cache namespace from cleaner settings
func Namespace(minLength int, stopWords int, lemmatize bool) string {
	return "min=" + strconv.Itoa(minLength) + ";stop=" + strconv.Itoa(stopWords) + ";lemma=" + strconv.FormatBool(lemmatize)
}

// Clean returns a cached result when present, otherwise cleans and stores
func (c *CachedCleaner) Clean(text string) (string, bool) {
	key := cache.Key(c.namespace, text)
	if val, ok := c.store.Get(key); ok && len(val) > 0 {
		c.hits.Add(1)
		return string(val[1:]), val[0] == '1'
	}
	c.misses.Add(1)

	cleaned, kept := c.next.Clean(text)
	flag := byte('0')
	if kept {
		flag = '1'
	}
	// a failed write only costs a recompute next time
	_ = c.store.Set(key, append([]byte{flag}, cleaned...), 0)
	return cleaned, kept
}

// Stats returns cache hits and misses so far
func (c *CachedCleaner) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
