package monitor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-ing/pricehawk/internal/model"
)

func TestChangeBufferAppendAndDrain(t *testing.T) {
	buffer := NewChangeBuffer()
	assert.Equal(t, 0, buffer.Len())

	buffer.Append(model.ChangeRecord{ProductID: "p1"})
	buffer.Append(model.ChangeRecord{ProductID: "p2"})
	assert.Equal(t, 2, buffer.Len())

	records := buffer.DrainAll()
	assert.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].ProductID)
	assert.Equal(t, "p2", records[1].ProductID)

	// Draining empties the buffer
	assert.Equal(t, 0, buffer.Len())
	assert.Empty(t, buffer.DrainAll())
}

func TestChangeBufferConcurrentAppends(t *testing.T) {
	buffer := NewChangeBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buffer.Append(model.ChangeRecord{ProductID: fmt.Sprintf("p%d-%d", n, j)})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, buffer.Len())
	assert.Len(t, buffer.DrainAll(), 1000)
}
