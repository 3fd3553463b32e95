package queue

import (
	"github.com/maheshrc27/postgate/internal/service"
)

// Queue runs deferred publishes through the same orchestrator the API uses.
type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{
		ps: ps,
	}
}
