package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"pencil-sketch/internal/logger"
)

type AllocationRecord struct {
	Size        int64
	Tag         string
	AllocatedAt time.Time
}

type Stats struct {
	TotalAllocated   int64
	TotalReleased    int64
	AllocationCount  int64
	ActiveMats       int64
	PeakActiveBytes  int64
	UntrackedRelease int64
}

// Manager accounts for every safe.Mat created during a render. It satisfies
// safe.MemoryTracker. One Manager is created per render so Stats describe
// that render alone.
type Manager struct {
	allocations map[uint64]AllocationRecord
	mu          sync.Mutex
	activeBytes int64
	peakBytes   int64
	totalAlloc  int64
	totalFree   int64
	allocCount  int64
	untracked   int64
	maxBytes    int64
	log         logger.Logger
}

// NewManager returns a tracker that warns once live Mats exceed maxBytes.
// maxBytes <= 0 disables the warning.
func NewManager(log logger.Logger, maxBytes int64) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		allocations: make(map[uint64]AllocationRecord),
		maxBytes:    maxBytes,
		log:         log,
	}
}

func (m *Manager) TrackAllocation(id uint64, size int64, tag string) {
	atomic.AddInt64(&m.totalAlloc, size)
	atomic.AddInt64(&m.allocCount, 1)

	m.mu.Lock()
	m.allocations[id] = AllocationRecord{Size: size, Tag: tag, AllocatedAt: time.Now()}
	m.activeBytes += size
	if m.activeBytes > m.peakBytes {
		m.peakBytes = m.activeBytes
	}
	active := m.activeBytes
	m.mu.Unlock()

	if m.maxBytes > 0 && active > m.maxBytes {
		m.log.Warning("MemoryManager", "live Mat memory above limit", map[string]interface{}{
			"active_bytes": active,
			"limit_bytes":  m.maxBytes,
			"tag":          tag,
		})
	}
}

func (m *Manager) TrackDeallocation(id uint64, tag string) {
	m.mu.Lock()
	record, exists := m.allocations[id]
	if exists {
		delete(m.allocations, id)
		m.activeBytes -= record.Size
	}
	m.mu.Unlock()

	if !exists {
		atomic.AddInt64(&m.untracked, 1)
		m.log.Debug("MemoryManager", "release of untracked Mat", map[string]interface{}{
			"id":  id,
			"tag": tag,
		})
		return
	}
	atomic.AddInt64(&m.totalFree, record.Size)
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	active := int64(len(m.allocations))
	peak := m.peakBytes
	m.mu.Unlock()

	return Stats{
		TotalAllocated:   atomic.LoadInt64(&m.totalAlloc),
		TotalReleased:    atomic.LoadInt64(&m.totalFree),
		AllocationCount:  atomic.LoadInt64(&m.allocCount),
		ActiveMats:       active,
		PeakActiveBytes:  peak,
		UntrackedRelease: atomic.LoadInt64(&m.untracked),
	}
}

// Leaks lists the Mats still alive, by tag.
func (m *Manager) Leaks() []AllocationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	leaks := make([]AllocationRecord, 0, len(m.allocations))
	for _, record := range m.allocations {
		leaks = append(leaks, record)
	}
	return leaks
}
