package wallet

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountLocksSerializePerKey(t *testing.T) {
	locks := newAccountLocks()

	const goroutines = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.Lock("acc-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	require.Equal(t, goroutines, counter)
}

func TestAccountLocksIndependentKeys(t *testing.T) {
	locks := newAccountLocks()

	unlockA := locks.Lock("a")
	// "b" não pode bloquear atrás de "a"
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()

	// reentrada na mesma chave depois de liberar
	unlock := locks.Lock("a")
	unlock()
}
