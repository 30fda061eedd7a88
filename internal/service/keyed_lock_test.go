package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locks := newKeyedMutex()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(registrationKey(1, 42))
			current := counter
			counter = current + 1
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locks.size())
}

func TestKeyedMutexOverlappingBatches(t *testing.T) {
	locks := newKeyedMutex()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			locks.Lock("a", "b", "c")()
		}()
		go func() {
			defer wg.Done()
			locks.Lock("c", "b", "a", "a")()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, locks.size())
}
