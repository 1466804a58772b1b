package ui

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/patrickmn/go-cache"
)

// RenderCache memoizes rendered output by a hash of its inputs. Entries
// expire after the configured TTL so stale widths and themes age out.
type RenderCache struct {
	store *cache.Cache
}

// NewRenderCache creates a cache whose entries live for ttl. A
// non-positive ttl keeps entries until Clear.
func NewRenderCache(ttl time.Duration) *RenderCache {
	if ttl <= 0 {
		return &RenderCache{store: cache.New(cache.NoExpiration, 0)}
	}
	return &RenderCache{store: cache.New(ttl, 2*ttl)}
}

// ComputeKey hashes the inputs with FNV-1a. Only string, int, float64 and
// bool contribute; other types are skipped.
func ComputeKey(inputs ...any) uint64 {
	h := fnv.New64a()
	var b [8]byte
	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			h.Write([]byte(v))
			h.Write([]byte{0})
		case int:
			binary.LittleEndian.PutUint64(b[:], uint64(v))
			h.Write(b[:])
		case float64:
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
			h.Write(b[:])
		case bool:
			if v {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return h.Sum64()
}

func cacheKey(key uint64) string { return strconv.FormatUint(key, 16) }

// Get retrieves cached content if available.
func (rc *RenderCache) Get(key uint64) (string, bool) {
	v, ok := rc.store.Get(cacheKey(key))
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set stores rendered content.
func (rc *RenderCache) Set(key uint64, content string) {
	rc.store.SetDefault(cacheKey(key), content)
}

// GetOrCompute retrieves from the cache or computes and stores on a miss.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	if content, ok := rc.Get(key); ok {
		return content
	}
	content := compute()
	rc.Set(key, content)
	return content
}

// Len returns the number of live entries.
func (rc *RenderCache) Len() int { return rc.store.ItemCount() }

// Clear empties the cache.
func (rc *RenderCache) Clear() { rc.store.Flush() }

// MarkdownRenderer renders card bodies through glamour, one renderer per
// wrap width, with results memoized in a RenderCache.
type MarkdownRenderer struct {
	style     string
	cache     *RenderCache
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer picks the glamour style matching theme.
func NewMarkdownRenderer(theme Theme, c *RenderCache) *MarkdownRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	if c == nil {
		c = NewRenderCache(0)
	}
	return &MarkdownRenderer{
		style:     style,
		cache:     c,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render wraps md to width. Glamour failures fall back to the raw text.
func (mr *MarkdownRenderer) Render(md string, width int) string {
	width = max(width, 10)
	key := ComputeKey("md", mr.style, width, md)
	return mr.cache.GetOrCompute(key, func() string {
		r, ok := mr.renderers[width]
		if !ok {
			var err error
			r, err = glamour.NewTermRenderer(
				glamour.WithStylePath(mr.style),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return md
			}
			mr.renderers[width] = r
		}
		out, err := r.Render(md)
		if err != nil {
			return md
		}
		return out
	})
}
