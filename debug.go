package plus

import "fmt"

func assert(truth bool, msg ...interface{}) {
	if !truth {
		panic(fmt.Sprint("Assertion failed: ", fmt.Sprint(msg...)))
	}
}
