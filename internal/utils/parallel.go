package utils

import (
	"github.com/zeromicro/go-zero/core/mr"
)

// ParallelMap 以 workers 个并发执行 fn，结果顺序与 input 一致。
// fn 之间不得共享可变状态。
func ParallelMap[T, R any](input []T, workers int, fn func(T) R) []R {
	results := make([]R, len(input))
	if len(input) == 0 {
		return results
	}
	if workers < 1 {
		workers = 1
	}

	mr.ForEach(func(source chan<- int) {
		for i := range input {
			source <- i
		}
	}, func(i int) {
		results[i] = fn(input[i])
	}, mr.WithWorkers(workers))

	return results
}
