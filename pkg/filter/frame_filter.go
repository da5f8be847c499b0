// Package filter provides noise filtering and normalization of stack-frame
// lines so threads with equivalent call paths compare equal across dumps.
package filter

import (
	"regexp"
	"strings"
	"sync"
)

// Options configures a FrameFilter. The zero value is a no-op filter that
// only canonicalizes whitespace and the "at " marker.
type Options struct {
	// IgnoredPackages lists class-name prefixes whose frames are dropped.
	IgnoredPackages []string

	// StripLineNumbers removes the :NN suffix from source locations.
	StripLineNumbers bool

	// UseBuiltinIgnores additionally applies BuiltinIgnoredPrefixes.
	UseBuiltinIgnores bool
}

// BuiltinIgnoredPrefixes are well-known JDK and framework internals that are
// almost never the root cause of pool saturation.
var BuiltinIgnoredPrefixes = []string{
	"java.lang.",
	"java.util.concurrent.",
	"jdk.internal.",
	"sun.",
	"com.sun.",
	"org.apache.tomcat.util.threads.",
	"org.springframework.aop.framework.",
	"org.springframework.beans.factory.support.",
	"io.netty.util.internal.",
	"ch.qos.logback.core.",
	"com.alibaba.arthas.deps.",
}

// frame marker and volatile suffix patterns, evaluated in a fixed order
var (
	atPrefixRe   = regexp.MustCompile(`^at\s+`)
	lineNumberRe = regexp.MustCompile(`:\d+\)$`)
)

// FrameFilter maps raw stack-frame lines to a normalized form suitable for
// equality comparison. Normalization is a pure function of the raw line and
// the options fixed at construction; the internal cache only memoizes it.
// FrameFilter is safe for concurrent use.
type FrameFilter struct {
	ignoredPrefixes  []string
	stripLineNumbers bool

	mu           sync.RWMutex
	cache        map[string]cachedFrame
	cacheMaxSize int
}

type cachedFrame struct {
	normalized string
	kept       bool
}

// NewFrameFilter creates a FrameFilter for the given options.
func NewFrameFilter(opts Options) *FrameFilter {
	prefixes := make([]string, 0, len(opts.IgnoredPackages)+len(BuiltinIgnoredPrefixes))
	prefixes = append(prefixes, opts.IgnoredPackages...)
	if opts.UseBuiltinIgnores {
		prefixes = append(prefixes, BuiltinIgnoredPrefixes...)
	}

	return &FrameFilter{
		ignoredPrefixes:  prefixes,
		stripLineNumbers: opts.StripLineNumbers,
		cache:            make(map[string]cachedFrame),
		cacheMaxSize:     10000,
	}
}

// Normalize canonicalizes a raw stack-frame line. It returns the normalized
// frame text and whether the frame should be kept; frames belonging to an
// ignored package prefix return ("", false) so that two stacks differing
// only in filtered-out frames compare equal.
func (f *FrameFilter) Normalize(raw string) (string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return "", false
	}

	f.mu.RLock()
	if c, ok := f.cache[line]; ok {
		f.mu.RUnlock()
		return c.normalized, c.kept
	}
	f.mu.RUnlock()

	normalized, kept := f.normalizeUncached(line)

	f.mu.Lock()
	if len(f.cache) < f.cacheMaxSize {
		f.cache[line] = cachedFrame{normalized: normalized, kept: kept}
	}
	f.mu.Unlock()

	return normalized, kept
}

func (f *FrameFilter) normalizeUncached(line string) (string, bool) {
	frame := atPrefixRe.ReplaceAllString(line, "")

	if f.isIgnored(frame) {
		return "", false
	}

	if f.stripLineNumbers {
		frame = lineNumberRe.ReplaceAllString(frame, ")")
	}

	return frame, true
}

// isIgnored checks whether the frame's qualified method name begins with any
// ignored package prefix.
func (f *FrameFilter) isIgnored(frame string) bool {
	qualified := frame
	if paren := strings.Index(qualified, "("); paren >= 0 {
		qualified = qualified[:paren]
	}

	for _, prefix := range f.ignoredPrefixes {
		if strings.HasPrefix(qualified, prefix) {
			return true
		}
	}
	return false
}

// IgnoredPrefixes returns the active ignored prefixes.
func (f *FrameFilter) IgnoredPrefixes() []string {
	result := make([]string, len(f.ignoredPrefixes))
	copy(result, f.ignoredPrefixes)
	return result
}

// CacheStats returns cache statistics.
func (f *FrameFilter) CacheStats() (size int, maxSize int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache), f.cacheMaxSize
}

// NoopFilter returns a filter that drops nothing and keeps line numbers.
// Used when no noise-filter configuration is present.
func NoopFilter() *FrameFilter {
	return NewFrameFilter(Options{})
}
