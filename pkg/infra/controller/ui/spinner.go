// 指示: miu200521358
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinner は変換待ちの進行表示。コンテキスト取り消しで止まる。
type spinner struct {
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
}

// newSpinner はメッセージ付きの進行表示を生成する。
func newSpinner(message string) *spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext はコンテキスト取り消しで止まる進行表示を生成する。
func newSpinnerWithContext(ctx context.Context, message string) *spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &spinner{
		message: message,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start は進行表示を開始する。
func (s *spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), styleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Stop は進行表示を止めて行を消す。複数回呼んでも安全。
func (s *spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

// Cancelled は呼び出し元のコンテキスト取り消しで止まったかどうかを返す。
// Stop 自身による停止では false のまま。
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
