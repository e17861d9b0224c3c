package display

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) Display(w io.Writer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	fmt.Fprintf(w, "update %d\n", c.n)
	return c.n < 3
}

func TestDisplayStopsItself(t *testing.T) {
	var buf bytes.Buffer
	c := &counter{}
	d := New(&buf, c, time.Millisecond)
	d.Start()
	d.Wait()
	d.Close()
	assert.Equal(t, 4, c.n)
	assert.Contains(t, buf.String(), "update 4")
}
