package test

import (
	"net"
	"sync"
)

var (
	used = map[int]struct{}{}
	lock sync.Mutex
)

// RandomPort returns a free local port that no earlier call returned.
func RandomPort() int {
	lock.Lock()
	defer lock.Unlock()
	for {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			panic(err)
		}
		port := l.Addr().(*net.TCPAddr).Port
		_ = l.Close()

		if _, ok := used[port]; !ok {
			used[port] = struct{}{}
			return port
		}
	}
}
