package debounce

import (
	"sync"
	"time"
)

// Debouncer 固定静默窗口的去抖器
// 窗口内的新调用取消之前排定的执行并重新计时，
// 窗口结束后只执行最后一次提交的函数
type Debouncer struct {
	mu    sync.Mutex
	d     time.Duration
	timer *time.Timer
}

// New 创建去抖器
func New(d time.Duration) *Debouncer {
	return &Debouncer{d: d}
}

// Do 提交一个函数
// 重置静默计时，之前尚未执行的提交被丢弃
func (b *Debouncer) Do(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, fn)
}

// Stop 取消尚未执行的提交
func (b *Debouncer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
