package caret

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// goroutineID extracts the numeric goroutine ID from the stack header.
// The header format is "goroutine N [state]:".
func goroutineID() uint64 {
	var stack [64]byte
	n := runtime.Stack(stack[:], false)
	fields := bytes.Fields(stack[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// assertOwner panics if the caller is not the goroutine that created the
// model. Mutating the caret set off the owner goroutine is a contract
// violation; queries remain safe via the published snapshot.
func (m *MultiModel) assertOwner() {
	if id := goroutineID(); id != m.owner {
		panic(fmt.Sprintf("caret: mutator called from goroutine %d, model owned by goroutine %d", id, m.owner))
	}
}

func (m *MultiModel) isOwner() bool {
	return goroutineID() == m.owner
}
