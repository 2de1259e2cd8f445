package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/davidbz/lodestar/internal/observability"
)

const (
	cacheKeyPrefix = "qa:cache:"
	entryKeyPrefix = "qa:entry:"
	tokenKeyPrefix = "qa:token:"

	minTokenRunes = 2
	entryIDHexLen = 16
)

// LookupStatus is the outcome class of a cache lookup.
type LookupStatus string

const (
	LookupHit      LookupStatus = "hit"
	LookupMiss     LookupStatus = "miss"
	LookupDegraded LookupStatus = "degraded"
)

// CacheLookup is the result of CacheTier.Lookup. Degraded lookups carry the store error
// and must be treated as misses.
type CacheLookup struct {
	Status LookupStatus
	Entry  *CacheEntry
	Match  MatchKind
	Err    error
}

// SeedEntry is a curated answer loaded into the cache tier at startup.
type SeedEntry struct {
	ID               string
	QuestionVariants []string
	Answer           string
	Keywords         []string
	Confidence       float64
	Category         string
	Source           string
}

// CacheTier answers repeated questions from a key/value store by exact key or keyword overlap.
type CacheTier struct {
	store   CacheStore
	ttl     time.Duration
	seedTTL time.Duration
	timeout time.Duration
}

// NewCacheTier creates a cache tier over store.
func NewCacheTier(store CacheStore, cfg PipelineConfig) *CacheTier {
	return &CacheTier{
		store:   store,
		ttl:     cfg.CacheTTL,
		seedTTL: cfg.SeedTTL,
		timeout: cfg.CacheTimeout,
	}
}

// CacheKey derives the exact-match key for a normalized question.
func CacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// EntryID derives a stable entry identifier for a normalized question.
func EntryID(normalized string) string {
	return digestID("qa_", normalized)
}

func digestID(prefix, text string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + hex.EncodeToString(sum[:])[:entryIDHexLen]
}

func entryKey(id string) string { return entryKeyPrefix + id }

func tokenKey(token string) string { return tokenKeyPrefix + token }

// Tokenize lower-cases text and splits it on anything that is not a letter or digit.
// Tokens shorter than two runes are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minTokenRunes {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// Lookup tries the exact key first and then the keyword index.
func (c *CacheTier) Lookup(ctx context.Context, q NormalizedQuestion) CacheLookup {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	logger := observability.FromContext(ctx)

	key := CacheKey(q.Text)
	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		entry, decodeErr := decodeEntry(data)
		if decodeErr != nil {
			logger.Warn("discarding undecodable cache entry",
				observability.String("key", key),
				observability.Error(decodeErr))
			break
		}
		c.refresh(ctx, key, entry)
		return CacheLookup{Status: LookupHit, Entry: entry, Match: MatchExact}
	case errors.Is(err, ErrNotFound):
	default:
		logger.Warn("cache store unavailable on exact lookup", observability.Error(err))
		return CacheLookup{Status: LookupDegraded, Err: unavailable("cache store", err)}
	}

	entry, err := c.fuzzyLookup(ctx, q.Text)
	if err != nil {
		logger.Warn("cache store unavailable on fuzzy lookup", observability.Error(err))
		return CacheLookup{Status: LookupDegraded, Err: unavailable("cache store", err)}
	}
	if entry != nil {
		c.refresh(ctx, "", entry)
		return CacheLookup{Status: LookupHit, Entry: entry, Match: MatchFuzzy}
	}

	return CacheLookup{Status: LookupMiss}
}

// refresh re-arms the ttl of an entry on access: the exact key that matched (if any), the entry
// record and its keyword sets. Persistent entries are left alone. Failures are ignored.
func (c *CacheTier) refresh(ctx context.Context, key string, entry *CacheEntry) {
	ttl := c.ttlFor(entry.Provenance)
	if ttl <= 0 || entry.ExpiresAt == nil {
		return
	}

	logger := observability.FromContext(ctx)

	keys := []string{entryKey(entry.ID)}
	if key != "" {
		keys = append(keys, key)
	}
	for _, k := range keys {
		if err := c.store.Expire(ctx, k, ttl); err != nil && !errors.Is(err, ErrNotFound) {
			logger.Debug("cache ttl refresh failed", observability.String("key", k), observability.Error(err))
			return
		}
	}
	for _, token := range keywordTokens(entry.Keywords) {
		if err := c.store.AddToSet(ctx, tokenKey(token), ttl, entry.ID); err != nil {
			logger.Debug("cache keyword refresh failed", observability.String("token", token), observability.Error(err))
			return
		}
	}

	entry.ExpiresAt = expiresAt(time.Now().UTC(), ttl)
}

func (c *CacheTier) ttlFor(p Provenance) time.Duration {
	if p == ProvenanceSeed {
		return c.seedTTL
	}
	return c.ttl
}

func (c *CacheTier) fuzzyLookup(ctx context.Context, text string) (*CacheEntry, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, token := range tokens {
		members, err := c.store.SetMembers(ctx, tokenKey(token))
		if err != nil {
			return nil, err
		}
		for _, id := range members {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var best *CacheEntry
	for _, id := range ids {
		data, err := c.store.Get(ctx, entryKey(id))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entry, decodeErr := decodeEntry(data)
		if decodeErr != nil {
			continue
		}
		if best == nil || entry.Confidence > best.Confidence {
			best = entry
		}
	}

	return best, nil
}

// Put stores entry under the exact key of normalized and indexes its keywords.
func (c *CacheTier) Put(ctx context.Context, normalized string, entry *CacheEntry, ttl time.Duration) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	if entry.ID == "" {
		entry.ID = EntryID(normalized)
	}
	now := time.Now().UTC()
	if entry.CachedAt.IsZero() {
		entry.CachedAt = now
	}
	entry.ExpiresAt = expiresAt(now, ttl)
	if len(entry.QuestionVariants) == 0 {
		entry.QuestionVariants = []string{normalized}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.store.Set(ctx, CacheKey(normalized), data, ttl); err != nil {
		return unavailable("cache store", err)
	}

	return c.index(ctx, entry, data, ttl)
}

func (c *CacheTier) index(ctx context.Context, entry *CacheEntry, data []byte, ttl time.Duration) error {
	if err := c.store.Set(ctx, entryKey(entry.ID), data, ttl); err != nil {
		return unavailable("cache store", err)
	}

	for _, token := range keywordTokens(entry.Keywords) {
		if err := c.store.AddToSet(ctx, tokenKey(token), ttl, entry.ID); err != nil {
			return unavailable("cache store", err)
		}
	}

	return nil
}

// TTL is the default lifetime of resolved answers.
func (c *CacheTier) TTL() time.Duration {
	return c.ttl
}

// Seed writes curated entries under every normalized question variant.
func (c *CacheTier) Seed(ctx context.Context, seeds []SeedEntry) (int, error) {
	logger := observability.FromContext(ctx)

	var errs []error
	seeded := 0
	for _, s := range seeds {
		variants := make([]string, 0, len(s.QuestionVariants))
		for _, v := range s.QuestionVariants {
			if strings.TrimSpace(v) == "" {
				continue
			}
			variants = append(variants, Normalize(v).Text)
		}
		if len(variants) == 0 || strings.TrimSpace(s.Answer) == "" {
			errs = append(errs, fmt.Errorf("seed %q: %w: question variants and answer are required", s.ID, ErrInvalidInput))
			continue
		}

		now := time.Now().UTC()
		entry := &CacheEntry{
			ID:               s.ID,
			QuestionVariants: variants,
			Answer:           s.Answer,
			Keywords:         s.Keywords,
			Confidence:       clampConfidence(s.Confidence),
			Provenance:       ProvenanceSeed,
			Category:         s.Category,
			CachedAt:         now,
			ExpiresAt:        expiresAt(now, c.seedTTL),
		}
		if entry.ID == "" {
			entry.ID = EntryID(variants[0])
		}

		data, err := json.Marshal(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("seed %q: %w", entry.ID, err))
			continue
		}

		if err := c.seedOne(ctx, entry, variants, data); err != nil {
			errs = append(errs, fmt.Errorf("seed %q: %w", entry.ID, err))
			continue
		}
		seeded++
	}

	logger.Info("cache tier seeded",
		observability.Int("seeded", seeded),
		observability.Int("failed", len(errs)))

	return seeded, errors.Join(errs...)
}

func (c *CacheTier) seedOne(ctx context.Context, entry *CacheEntry, variants []string, data []byte) error {
	for _, v := range variants {
		if err := c.store.Set(ctx, CacheKey(v), data, c.seedTTL); err != nil {
			return unavailable("cache store", err)
		}
	}
	return c.index(ctx, entry, data, c.seedTTL)
}

// Invalidate removes the entry stored for a normalized question.
// Keyword sets keep the stale identifier; fuzzy lookups skip entries that no longer exist.
func (c *CacheTier) Invalidate(ctx context.Context, normalized string) error {
	key := CacheKey(normalized)

	data, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return unavailable("cache store", err)
	}

	keys := []string{key}
	if entry, decodeErr := decodeEntry(data); decodeErr == nil {
		keys = append(keys, entryKey(entry.ID))
	}

	if err := c.store.Delete(ctx, keys...); err != nil {
		return unavailable("cache store", err)
	}
	return nil
}

// Stats returns backend statistics.
func (c *CacheTier) Stats(ctx context.Context) (*CacheStoreStats, error) {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return nil, unavailable("cache store", err)
	}
	return stats, nil
}

// Ping checks the backing store.
func (c *CacheTier) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// expiresAt returns nil for entries stored without expiry.
func expiresAt(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl)
	return &t
}

func keywordTokens(keywords []string) []string {
	return Tokenize(strings.Join(keywords, " "))
}

func decodeEntry(data []byte) (*CacheEntry, error) {
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
