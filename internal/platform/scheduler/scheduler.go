// Package scheduler は cron 式によるジョブのスケジュール実行を提供します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc はスケジュール実行される処理です。
type JobFunc func(ctx context.Context) error

// Entry は登録済みジョブの情報です。
type Entry struct {
	Name string
	Spec string
	Next time.Time
}

// Scheduler は robfig/cron をラップし、ジョブ名の管理と重複実行の抑止を行います。
type Scheduler struct {
	cron    *cron.Cron
	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	entries map[string]registered
}

type registered struct {
	id   cron.EntryID
	spec string
}

// cronLogger は cron 内部のログを slog に流します。
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...any) {
	slog.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...any) {
	slog.Error("cron: "+msg, append(kv, "error", err)...)
}

// New は指定タイムゾーンで動作する Scheduler を生成します。
// 前回の実行が終わっていないジョブは次の起動時刻をスキップします。
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{cron: c, baseCtx: ctx, cancel: cancel, entries: map[string]registered{}}
}

// Register はジョブを cron 式（5フィールド）で登録します。同名のジョブは登録できません。
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}
	id, err := s.cron.AddFunc(spec, func() {
		if err := fn(s.baseCtx); err != nil {
			slog.Error("scheduled job failed", "job", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("register job %q with spec %q: %w", name, spec, err)
	}
	s.entries[name] = registered{id: id, spec: spec}
	return nil
}

// Entries は登録済みジョブを名前順で返します。Next は Start 前はゼロ値です。
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for name, r := range s.entries {
		out = append(out, Entry{Name: name, Spec: r.spec, Next: s.cron.Entry(r.id).Next})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Start はスケジューラーをバックグラウンドで開始します。
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop は新規実行を止め、実行中のジョブの完了を ctx の期限まで待ちます。
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		// 実行中ジョブにキャンセルを伝える
		s.cancel()
		return ctx.Err()
	}
}

// ValidateSpec は cron 式が正しいかを検証します。
func ValidateSpec(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}
