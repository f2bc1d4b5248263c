package catalog

import (
	"sync"
	"time"
)

// DefaultBannerTTL is how long a banner stays visible.
const DefaultBannerTTL = 3 * time.Second

// BannerKind selects the banner style.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is a transient notice shown above the list.
type Banner struct {
	ID      uint64
	Kind    BannerKind
	Message string
	Shown   time.Time
}

// Banners holds the current notice. A new banner replaces the previous one
// and each banner dismisses itself after the TTL unless it was replaced.
type Banners struct {
	mu      sync.Mutex
	ttl     time.Duration
	nextID  uint64
	current *Banner
	timer   *time.Timer
	now     func() time.Time
}

// NewBanners creates a banner holder. A non-positive ttl uses DefaultBannerTTL.
func NewBanners(ttl time.Duration) *Banners {
	if ttl <= 0 {
		ttl = DefaultBannerTTL
	}
	return &Banners{ttl: ttl, now: time.Now}
}

// TTL returns the display interval.
func (b *Banners) TTL() time.Duration {
	return b.ttl
}

// Success shows a success banner.
func (b *Banners) Success(message string) Banner {
	return b.Show(BannerSuccess, message)
}

// Error shows an error banner.
func (b *Banners) Error(message string) Banner {
	return b.Show(BannerError, message)
}

// Show replaces the current banner and schedules its dismissal.
func (b *Banners) Show(kind BannerKind, message string) Banner {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	banner := Banner{ID: b.nextID, Kind: kind, Message: message, Shown: b.now()}
	b.current = &banner

	if b.timer != nil {
		b.timer.Stop()
	}
	id := banner.ID
	b.timer = time.AfterFunc(b.ttl, func() { b.Dismiss(id) })

	return banner
}

// Current returns the visible banner, if any.
func (b *Banners) Current() (Banner, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Banner{}, false
	}
	return *b.current, true
}

// Dismiss hides banner id. Dismissing a replaced banner is a no-op.
func (b *Banners) Dismiss(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current != nil && b.current.ID == id {
		b.current = nil
	}
}

// Close stops the pending dismissal and clears the banner.
func (b *Banners) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.current = nil
}
