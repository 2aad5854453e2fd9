package system

import (
	"image"
	"sync"
)

// FramePool recycles *image.NRGBA buffers per rectangle so a long blend
// run does not allocate one full frame per output file.
type FramePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewFramePool()

func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetFrame returns a buffer with bounds rect from the shared pool. Its
// contents are undefined.
func GetFrame(rect image.Rectangle) *image.NRGBA {
	return globalPool.Get(rect)
}

// PutFrame hands img back to the shared pool. The caller must not use it
// afterwards.
func PutFrame(img *image.NRGBA) {
	globalPool.Put(img)
}

func (p *FramePool) Get(rect image.Rectangle) *image.NRGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewNRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.NRGBA)
}

// Put ignores buffers of a size the pool has never handed out.
func (p *FramePool) Put(img *image.NRGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
