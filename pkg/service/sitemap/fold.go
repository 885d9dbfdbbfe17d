package sitemap

import "fmt"

// fold 对每个元素调用 fn，累积成功的结果与失败的警告，永远不会中途返回。
// fn 内部的 panic 也只会让当前元素被跳过。
func fold[T, R any](items []T, fn func(T) (R, error)) ([]R, []string) {
	out := make([]R, 0, len(items))
	var warnings []string
	for _, item := range items {
		r, err := safeApply(fn, item)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		out = append(out, r)
	}
	return out, warnings
}

func safeApply[T, R any](fn func(T) (R, error), item T) (r R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(item)
}
