package detect

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
)

// Mock stands in for the detection service: every active color gets a
// random count between 1 and 10.
type Mock struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMock() *Mock {
	return &Mock{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (m *Mock) Detect(ctx context.Context, image []byte, filename string, active []models.Color) (map[models.Color]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[models.Color]int64, len(active))
	for _, c := range active {
		out[c] = int64(m.rnd.Intn(10) + 1)
	}
	return out, nil
}
