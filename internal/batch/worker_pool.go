package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Signer interface {
	Sign(ctx context.Context, payload []byte) ([]byte, error)
}

// SignTask - один файл для подписи
type SignTask struct {
	Input  string
	Output string
}

type Result struct {
	Task SignTask
	Err  error
}

type job struct {
	index int
	task  SignTask
}

// WorkerPool подписывает файлы несколькими воркерами
type WorkerPool struct {
	signer         Signer
	logger         *zap.Logger
	workers        int
	activeWorkers  int32
	processedTasks uint64
	failedTasks    uint64
}

// NewWorkerPool создает новый пул воркеров
func NewWorkerPool(signer Signer, workers int, logger *zap.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WorkerPool{
		signer:  signer,
		logger:  logger,
		workers: workers,
	}
}

// GetStats возвращает статистику пула. Задачи, пропущенные после отмены контекста,
// считаются и обработанными, и неудачными, поэтому failedTasks <= processedTasks.
func (wp *WorkerPool) GetStats() (activeWorkers int, processedTasks uint64, failedTasks uint64) {
	return int(atomic.LoadInt32(&wp.activeWorkers)),
		atomic.LoadUint64(&wp.processedTasks),
		atomic.LoadUint64(&wp.failedTasks)
}

// Run подписывает все задачи и возвращает результаты в порядке задач.
// После отмены ctx оставшиеся задачи получают ошибку контекста.
func (wp *WorkerPool) Run(ctx context.Context, tasks []SignTask) []Result {
	results := make([]Result, len(tasks))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			wp.worker(ctx, id, jobs, results)
		}(i)
	}

	wp.logger.Info("worker pool started",
		zap.Int("workers", wp.workers),
		zap.Int("tasks", len(tasks)),
	)

	for i, task := range tasks {
		select {
		case jobs <- job{index: i, task: task}:
		case <-ctx.Done():
			results[i] = Result{Task: task, Err: ctx.Err()}
			atomic.AddUint64(&wp.processedTasks, 1)
			atomic.AddUint64(&wp.failedTasks, 1)
		}
	}
	close(jobs)
	wg.Wait()

	wp.logger.Info("worker pool stopped",
		zap.Uint64("processed_tasks", atomic.LoadUint64(&wp.processedTasks)),
		zap.Uint64("failed_tasks", atomic.LoadUint64(&wp.failedTasks)),
	)

	return results
}

func (wp *WorkerPool) worker(ctx context.Context, id int, jobs <-chan job, results []Result) {
	for j := range jobs {
		atomic.AddInt32(&wp.activeWorkers, 1)

		start := time.Now()
		err := wp.signFile(ctx, j.task)
		duration := time.Since(start)

		atomic.AddInt32(&wp.activeWorkers, -1)
		atomic.AddUint64(&wp.processedTasks, 1)
		results[j.index] = Result{Task: j.task, Err: err}

		if err != nil {
			atomic.AddUint64(&wp.failedTasks, 1)
			wp.logger.Error("failed to sign file",
				zap.Int("worker_id", id),
				zap.String("input", j.task.Input),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			continue
		}

		wp.logger.Debug("file signed",
			zap.Int("worker_id", id),
			zap.String("output", j.task.Output),
			zap.Duration("duration", duration),
		)
	}
}

func (wp *WorkerPool) signFile(ctx context.Context, task SignTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := os.ReadFile(task.Input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	blob, err := wp.signer.Sign(ctx, payload)
	if err != nil {
		return err
	}

	if err := os.WriteFile(task.Output, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// DirTasks строит задачи для всех обычных файлов каталога inDir, результаты пишутся в outDir под теми же именами
func DirTasks(inDir, outDir string) ([]SignTask, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tasks := make([]SignTask, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		tasks = append(tasks, SignTask{
			Input:  filepath.Join(inDir, entry.Name()),
			Output: filepath.Join(outDir, entry.Name()),
		})
	}
	return tasks, nil
}
