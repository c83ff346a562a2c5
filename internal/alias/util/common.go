package util

import (
	"fmt"
	"io"
)

func CloseFunc(c io.Closer) {
	err := c.Close()
	if err != nil {
		fmt.Println(err)
	}
}
