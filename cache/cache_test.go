package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/eval"
)

func evalFor(key string, w eval.WDL) eval.Evaluation {
	return eval.Evaluation{PositionKey: key, WDL: w}
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	c := New(4)

	dtz := 11
	stored := eval.Evaluation{
		PositionKey: "k1",
		WDL:         eval.Win,
		DTZ:         &dtz,
		BestMoves:   []eval.CandidateMove{{UCI: "e6d6", SAN: "Kd6", WDL: eval.Win}},
	}
	c.Put("k1", stored)

	got, ok := c.Get("k1")
	is.True(ok)
	is.Equal(got, stored)

	_, ok = c.Get("missing")
	is.True(!ok)
}

func TestLRUEviction(t *testing.T) {
	is := is.New(t)
	c := New(3)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("k%d", i)
		c.Put(key, evalFor(key, eval.Draw))
	}
	is.Equal(c.Len(), 3)

	// One over capacity evicts exactly the least recently accessed entry.
	c.Put("k3", evalFor("k3", eval.Draw))
	is.Equal(c.Len(), 3)
	_, ok := c.Get("k0")
	is.True(!ok)
	_, ok = c.Get("k1")
	is.True(ok)

	// The Get on k1 above refreshed it, so the next eviction takes k2.
	c.Put("k4", evalFor("k4", eval.Draw))
	_, ok = c.Get("k2")
	is.True(!ok)
	_, ok = c.Get("k1")
	is.True(ok)
}

func TestPutReplacesInPlace(t *testing.T) {
	is := is.New(t)
	c := New(2)

	c.Put("a", evalFor("a", eval.Draw))
	c.Put("b", evalFor("b", eval.Draw))
	c.Put("a", evalFor("a", eval.Win))
	is.Equal(c.Len(), 2)

	got, ok := c.Get("a")
	is.True(ok)
	is.Equal(got.WDL, eval.Win)

	// Replacing "a" refreshed it, so "b" is the eviction candidate.
	c.Put("c", evalFor("c", eval.Draw))
	_, ok = c.Get("b")
	is.True(!ok)
}

func TestClear(t *testing.T) {
	is := is.New(t)
	c := New(2)
	c.Put("a", evalFor("a", eval.Draw))
	c.Clear()
	is.Equal(c.Len(), 0)
	_, ok := c.Get("a")
	is.True(!ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g+i)%32)
				c.Put(key, evalFor(key, eval.Draw))
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), c.Capacity())
}
