package ytcomments

import (
	"iter"

	"github.com/valyala/fastjson"
)

// searchKey yields every value stored under key anywhere inside root,
// at any depth, in both objects and arrays. The traversal uses an explicit
// stack so arbitrarily nested responses cannot exhaust the goroutine stack.
// Matched values are yielded as-is and not descended into.
func searchKey(root *fastjson.Value, key string) iter.Seq[*fastjson.Value] {
	return func(yield func(*fastjson.Value) bool) {
		if root == nil {
			return
		}

		stack := []*fastjson.Value{root}

		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch current.Type() {
			case fastjson.TypeObject:
				obj, err := current.Object()
				if err != nil {
					continue
				}

				stopped := false
				obj.Visit(func(k []byte, v *fastjson.Value) {
					if stopped {
						return
					}
					if string(k) == key {
						if !yield(v) {
							stopped = true
						}
					} else {
						stack = append(stack, v)
					}
				})
				if stopped {
					return
				}
			case fastjson.TypeArray:
				values, err := current.Array()
				if err != nil {
					continue
				}
				stack = append(stack, values...)
			}
		}
	}
}

// firstKey returns the first value found under key, or nil if key does not
// occur anywhere inside root.
func firstKey(root *fastjson.Value, key string) *fastjson.Value {
	for v := range searchKey(root, key) {
		return v
	}
	return nil
}

func collectKey(root *fastjson.Value, key string) []*fastjson.Value {
	var values []*fastjson.Value
	for v := range searchKey(root, key) {
		values = append(values, v)
	}
	return values
}
