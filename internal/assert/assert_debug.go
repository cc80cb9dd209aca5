//go:build !release

package assert

import "fmt"

func that(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
