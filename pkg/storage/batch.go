package storage

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunBatch 并发执行 n 个独立的 I/O 任务，结果按下标写回，保证顺序与输入一致
//
// 语义：任何一个任务失败，整个批次返回第一个错误，不返回部分结果。
// 失败会取消派生的 ctx，尚未开始的任务会提前退出；
// 但已经落盘/上传成功的任务不会回滚。
// limit <= 0 表示不限制并发数。
func RunBatch[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fn(gctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
