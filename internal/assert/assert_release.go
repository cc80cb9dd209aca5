//go:build release

package assert

func that(cond bool, format string, args ...any) {}
