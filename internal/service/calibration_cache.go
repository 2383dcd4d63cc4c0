package service

import (
	"sync"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/parlay-engine/internal/calibration"
	"github.com/yourusername/parlay-engine/internal/metrics"
)

const correctorKey = "corrector"

// CalibrationCache keeps calibration reports and the factor corrector in memory
// between refreshes. It is safe for concurrent use.
type CalibrationCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewCalibrationCache creates a new calibration cache
func NewCalibrationCache(ttl, cleanupInterval time.Duration) *CalibrationCache {
	return &CalibrationCache{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func reportKey(scope calibration.Scope) string {
	return "report:" + scope.Key()
}

// GetReport retrieves a cached report for the scope
func (cc *CalibrationCache) GetReport(scope calibration.Scope) (*calibration.Report, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	if item, found := cc.cache.Get(reportKey(scope)); found {
		if report, ok := item.(*calibration.Report); ok {
			cc.hit()
			return report, true
		}
	}

	cc.miss()
	return nil, false
}

// SetReport stores a report for its scope
func (cc *CalibrationCache) SetReport(report *calibration.Report) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache.Set(reportKey(report.Scope), report, cc.ttl)
}

// GetCorrector retrieves the cached corrector
func (cc *CalibrationCache) GetCorrector() (*calibration.Corrector, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	if item, found := cc.cache.Get(correctorKey); found {
		if corrector, ok := item.(*calibration.Corrector); ok {
			cc.hit()
			return corrector, true
		}
	}

	cc.miss()
	return nil, false
}

// SetCorrector stores the corrector
func (cc *CalibrationCache) SetCorrector(corrector *calibration.Corrector) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache.Set(correctorKey, corrector, cc.ttl)
}

// Invalidate removes every cached entry
func (cc *CalibrationCache) Invalidate() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache.Flush()
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup
func (cc *CalibrationCache) HitRatio() float64 {
	hits := cc.hitCount.Load()
	total := hits + cc.missCount.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Stats returns cache statistics
func (cc *CalibrationCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"items":     cc.cache.ItemCount(),
		"hits":      cc.hitCount.Load(),
		"misses":    cc.missCount.Load(),
		"hit_ratio": cc.HitRatio(),
		"ttl":       cc.ttl.String(),
	}
}

func (cc *CalibrationCache) hit() {
	cc.hitCount.Add(1)
	metrics.UpdateCacheHitRatio(cc.HitRatio())
}

func (cc *CalibrationCache) miss() {
	cc.missCount.Add(1)
	metrics.UpdateCacheHitRatio(cc.HitRatio())
}
