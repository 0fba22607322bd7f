// Package scheduler 提供定时任务调度
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmvillareal/hotel-backoffice/internal/common/logger"
)

// taskTimeout 单次任务执行超时
const taskTimeout = 5 * time.Minute

// Scheduler 定时任务调度器
// 每个任务独立 goroutine，按固定周期触发
type Scheduler struct {
	tasks  []*Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Task 定时任务
type Task struct {
	Name     string
	Interval time.Duration
	Handler  func(ctx context.Context) error
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Handler:  handler,
	})
}

// Start 启动调度器
func (s *Scheduler) Start() {
	logger.Info("调度器启动", zap.Int("tasks", len(s.tasks)))

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
}

// Stop 停止调度器，等待在途任务结束
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	logger.Info("调度器已停止")
}

func (s *Scheduler) runTask(task *Task) {
	defer s.wg.Done()

	logger.Info("定时任务注册",
		zap.String("task", task.Name),
		zap.Duration("interval", task.Interval))

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	// 启动时先跑一轮
	s.executeTask(task)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeTask(task)
		}
	}
}

func (s *Scheduler) executeTask(task *Task) {
	ctx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	start := time.Now()
	if err := task.Handler(ctx); err != nil {
		logger.Error("定时任务执行失败",
			zap.String("task", task.Name),
			zap.Error(err))
		return
	}
	logger.Debug("定时任务执行完成",
		zap.String("task", task.Name),
		zap.Duration("cost", time.Since(start)))
}
